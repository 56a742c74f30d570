package tsp

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
)

// ParseUpdateLine parses one line of the update stream format produced by
// external traffic providers:
//
//	c <from> <to> <value>   rewrites a travel-cost cell
//	d <from> <to> <value>   rewrites a distance cell
func ParseUpdateLine(line string) (MatrixUpdate, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return MatrixUpdate{}, fmt.Errorf("expected 4 fields, got %d in %q", len(fields), line)
	}

	var matrix MatrixID
	switch fields[0] {
	case "c":
		matrix = CostMatrix
	case "d":
		matrix = DistanceMatrix
	default:
		return MatrixUpdate{}, fmt.Errorf("unknown update kind %q in %q", fields[0], line)
	}

	x, err := strconv.Atoi(fields[1])
	if err != nil {
		return MatrixUpdate{}, fmt.Errorf("parsing origin in %q: %w", line, err)
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return MatrixUpdate{}, fmt.Errorf("parsing destination in %q: %w", line, err)
	}
	value, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return MatrixUpdate{}, fmt.Errorf("parsing value in %q: %w", line, err)
	}

	return MatrixUpdate{Matrix: matrix, X: x, Y: y, Value: value}, nil
}

// ReadMatrix reads an edge-list instance: the first line holds the number of
// cities, every following line is "<from> <to> <value>". Missing edges stay
// at zero.
func ReadMatrix(r io.Reader) ([][]float64, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("missing header line with the number of cities")
	}

	n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid number of cities %q", scanner.Text())
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected at least 3 fields in %q", lineNo, line)
		}
		from, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		to, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if from < 0 || from >= n || to < 0 || to >= n {
			return nil, fmt.Errorf("line %d: edge (%d,%d) outside %d cities", lineNo, from, to, n)
		}
		matrix[from][to] = value
	}

	return matrix, scanner.Err()
}

// RandomInstance builds symmetric random distance and cost matrices for n
// cities, useful for demos and tests when no instance files are at hand.
func RandomInstance(n int, maxDistance, maxCost float64) (distance, cost [][]float64) {
	distance = make([][]float64, n)
	cost = make([][]float64, n)
	for i := range distance {
		distance[i] = make([]float64, n)
		cost[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := rand.Float64() * maxDistance
			c := rand.Float64() * maxCost
			distance[i][j], distance[j][i] = d, d
			cost[i][j], cost[j][i] = c, c
		}
	}
	return distance, cost
}
