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

package speclib

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sambuca "github.com/obarrilero/sambuca-core"
)

// enviHeader holds the fields of an ENVI spectral library header that are
// needed to decode the binary data file.
type enviHeader struct {
	samples      int // bands per spectrum
	lines        int // number of spectra
	dataType     int // ENVI data type code
	byteOrder    int // 0 = little endian, 1 = big endian
	wavelengths  []float64
	spectraNames []string
}

// parseENVIHeader parses the text header of an ENVI spectral library.
// Headers consist of "key = value" lines, where a value may be a
// brace-delimited list spanning multiple lines.
func parseENVIHeader(path string) (*enviHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fields := make(map[string]string)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:eq]))
		value := strings.TrimSpace(line[eq+1:])
		if strings.HasPrefix(value, "{") && !strings.HasSuffix(value, "}") {
			// Multi-line list; accumulate until the closing brace.
			for scanner.Scan() {
				value += " " + strings.TrimSpace(scanner.Text())
				if strings.HasSuffix(value, "}") {
					break
				}
			}
		}
		fields[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("speclib: reading ENVI header %s: %v", path, err)
	}

	h := &enviHeader{}
	for _, req := range []struct {
		key string
		dst *int
	}{
		{"samples", &h.samples},
		{"lines", &h.lines},
		{"data type", &h.dataType},
		{"byte order", &h.byteOrder},
	} {
		s, ok := fields[req.key]
		if !ok {
			return nil, fmt.Errorf("%w: ENVI header %s is missing %q",
				ErrInvalidSpectralData, path, req.key)
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: ENVI header %s field %q: %v",
				ErrInvalidSpectralData, path, req.key, err)
		}
		*req.dst = v
	}

	wl, ok := fields["wavelength"]
	if !ok {
		return nil, fmt.Errorf("%w: ENVI header %s is missing wavelengths",
			ErrInvalidSpectralData, path)
	}
	for _, s := range splitENVIList(wl) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: ENVI header %s wavelength %q: %v",
				ErrInvalidSpectralData, path, s, err)
		}
		h.wavelengths = append(h.wavelengths, v)
	}

	if names, ok := fields["spectra names"]; ok {
		h.spectraNames = splitENVIList(names)
	} else {
		for i := 0; i < h.lines; i++ {
			h.spectraNames = append(h.spectraNames, fmt.Sprintf("Band %d", i+1))
		}
	}

	if len(h.wavelengths) != h.samples || len(h.spectraNames) != h.lines {
		return nil, fmt.Errorf("%w: ENVI header %s is inconsistent",
			ErrInvalidSpectralData, path)
	}
	return h, nil
}

// splitENVIList splits a brace-delimited, comma-separated ENVI header list
// into trimmed elements.
func splitENVIList(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "{"), "}")
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadENVISpectralLibrary loads spectra from an ENVI spectral library:
// the pair of files baseName.hdr and baseName.lib within directory.
func LoadENVISpectralLibrary(directory, baseName string) (Library, error) {
	h, err := parseENVIHeader(filepath.Join(directory, baseName+".hdr"))
	if err != nil {
		return nil, err
	}
	if err := validateWavelengths(h.wavelengths); err != nil {
		return nil, fmt.Errorf("spectral library %s failed validation: %w",
			baseName, err)
	}

	var order binary.ByteOrder = binary.LittleEndian
	if h.byteOrder == 1 {
		order = binary.BigEndian
	}

	data, err := os.Open(filepath.Join(directory, baseName+".lib"))
	if err != nil {
		return nil, err
	}
	defer data.Close()
	rd := bufio.NewReader(data)

	lib := Library{}
	for i := 0; i < h.lines; i++ {
		values := make([]float64, h.samples)
		switch h.dataType {
		case 4: // 32-bit float
			row := make([]float32, h.samples)
			if err := binary.Read(rd, order, row); err != nil {
				return nil, fmt.Errorf("speclib: reading ENVI data for %s: %v",
					baseName, err)
			}
			for j, v := range row {
				values[j] = float64(v)
			}
		case 5: // 64-bit float
			if err := binary.Read(rd, order, values); err != nil {
				return nil, fmt.Errorf("speclib: reading ENVI data for %s: %v",
					baseName, err)
			}
		default:
			return nil, fmt.Errorf("%w: unsupported ENVI data type %d",
				ErrInvalidSpectralData, h.dataType)
		}

		wavelengths := make([]float64, h.samples)
		copy(wavelengths, h.wavelengths)
		lib[SpectrumName(baseName, h.spectraNames[i])] = sambuca.Spectrum{
			Wavelengths: wavelengths,
			Values:      values,
		}
	}
	return lib, nil
}
