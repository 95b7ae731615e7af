package sysinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var errNotFound = errors.New("field not found")

// readFile opens name through the injectable opener and hands it to parse.
func readFile[T any](r *Resolver, name string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := r.openFile(name)
	if err != nil {
		return zero, fmt.Errorf("sysinfo: open %s: %w", name, err)
	}
	defer f.Close()

	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("sysinfo: parse %s: %w", name, err)
	}
	return v, nil
}

// parseCPUInfoModel returns the first "model name" value of /proc/cpuinfo.
func parseCPUInfoModel(rd io.Reader) (string, error) {
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "model name") {
			continue
		}
		if _, v, ok := splitField(line); ok {
			return v, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", errNotFound
}

// parseLscpuModel returns the "Model name" value from lscpu output, in
// either the English or the Chinese locale.
func parseLscpuModel(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "Model name") && !strings.Contains(line, "型号名称") {
			continue
		}
		if _, v, ok := splitField(line); ok {
			return v, nil
		}
	}
	return "", errNotFound
}

// parseWmicName returns the first value row of "wmic cpu get name".
func parseWmicName(out string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(out, "\r", ""), "\n")
	for _, line := range lines[1:] {
		if v := strings.TrimSpace(line); v != "" {
			return v, nil
		}
	}
	return "", errNotFound
}

// splitField splits "key : value" on the first ASCII or full-width colon.
func splitField(line string) (string, string, bool) {
	idx := strings.IndexAny(line, ":：")
	if idx < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:idx])
	_, width := utf8.DecodeRuneInString(line[idx:])
	value := strings.TrimSpace(line[idx+width:])
	return key, value, value != ""
}

// parseOSRelease returns PRETTY_NAME from an os-release file.
func parseOSRelease(rd io.Reader) (string, error) {
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		v, ok := strings.CutPrefix(line, "PRETTY_NAME=")
		if !ok {
			continue
		}
		v = strings.Trim(v, `"'`)
		if v != "" {
			return v, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", errNotFound
}
