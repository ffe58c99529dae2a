// SPDX-License-Identifier: MIT
// Matrix load/save is the thin external-collaborator surface named in
// spec §6: space-separated rows, one row per line. This is deliberately
// minimal — the CLI's only job is to feed blockqr.Factorize and report the
// result, not to be a general matrix I/O library.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/blockqr/blockqr/matrix"
)

// loadMatrix reads a space-separated, newline-per-row matrix from path.
func loadMatrix(path string) (*matrix.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loadMatrix: %w", err)
	}
	defer f.Close()

	var rows [][]float64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("loadMatrix: %w", err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loadMatrix: %w", err)
	}

	m, err := matrix.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("loadMatrix: %w", err)
	}

	return m, nil
}

// saveMatrix writes mat to path in the same space-separated, newline-per-row
// format loadMatrix reads.
func saveMatrix(path string, mat *matrix.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saveMatrix: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, row := range mat.Rows2D() {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if _, err := w.WriteString(strings.Join(fields, " ") + "\n"); err != nil {
			return fmt.Errorf("saveMatrix: %w", err)
		}
	}

	return w.Flush()
}
