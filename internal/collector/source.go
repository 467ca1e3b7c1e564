package collector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrSourceUnavailable marks an address file that could not be opened or read.
var ErrSourceUnavailable = errors.New("address source unavailable")

// ReadAddressFile returns the pool addresses listed in path, one per line, in file order.
// Blank lines, lines starting with # and lines that are not valid UTF-8 are skipped.
// Addresses are not validated.
func ReadAddressFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer file.Close()

	var addresses []string
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if address, ok := parseAddressLine(line); ok {
				addresses = append(addresses, address)
			}
		}
		if errors.Is(err, io.EOF) {
			return addresses, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, path, err)
		}
	}
}

func parseAddressLine(line string) (string, bool) {
	if !utf8.ValidString(line) {
		return "", false
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	return line, true
}
