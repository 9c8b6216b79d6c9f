/*
Copyright © 2016 the Sambuca authors.
This file is part of Sambuca.

Sambuca is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Sambuca is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Sambuca.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command sambuca is a command-line interface for the Sambuca
// shallow-water reflectance model.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/obarrilero/sambuca-core/sambucautil"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
}

func main() {
	if err := sambucautil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
