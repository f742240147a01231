package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cliquecount/internal/graph"
	apperrors "github.com/cliquecount/pkg/errors"
	"github.com/cliquecount/pkg/parallel"
)

// linesPerChunk bounds how many lines one worker-pool task tokenizes at
// a time; large enough to amortize task scheduling, small enough that a
// multi-million-line dataset still spreads across every worker.
const linesPerChunk = 4096

type edgeLine struct {
	source int
	target int
}

// ParseEdges reads a tab-separated edge list (spec §6: "source<TAB
// >target...", first two fields decimal integers, extra fields
// ignored) and inserts every edge into g. Blank lines are rejected.
// Scanning and the blank-line check run on a single goroutine; field
// parsing for the surviving lines is spread across a worker pool,
// since tokenizing is embarrassingly parallel while Graph insertion
// must stay sequential.
func ParseEdges(ctx context.Context, r io.Reader, g *graph.Graph) error {
	lines, err := scanLines(ctx, r)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	chunks := chunkLines(lines, linesPerChunk)
	pool := parallel.NewWorkerPool[lineChunk, []edgeLine](parallel.DefaultPoolConfig())
	results := pool.ExecuteFunc(ctx, chunks, parseChunk)

	for _, res := range results {
		if res.Error != nil {
			return res.Error
		}
		for _, e := range res.Result {
			g.AddEdge(e.source, e.target)
		}
	}
	return nil
}

func scanLines(ctx context.Context, r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	lineNum := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			return nil, apperrors.New(apperrors.CodeInputError, fmt.Sprintf("line %d: blank lines are not allowed", lineNum))
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInputError, "scanning edge list", err)
	}
	return lines, nil
}

type lineChunk struct {
	startLine int
	lines     []string
}

func chunkLines(lines []string, size int) []lineChunk {
	var chunks []lineChunk
	for start := 0; start < len(lines); start += size {
		end := start + size
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, lineChunk{startLine: start + 1, lines: lines[start:end]})
	}
	return chunks
}

func parseChunk(ctx context.Context, chunk lineChunk) ([]edgeLine, error) {
	edges := make([]edgeLine, 0, len(chunk.lines))
	for i, line := range chunk.lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, apperrors.New(apperrors.CodeInputError, fmt.Sprintf("line %d: expected at least two tab-separated fields", chunk.startLine+i))
		}
		source, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInputError, fmt.Sprintf("line %d: source field", chunk.startLine+i), err)
		}
		target, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInputError, fmt.Sprintf("line %d: target field", chunk.startLine+i), err)
		}
		edges = append(edges, edgeLine{source: source, target: target})
	}
	return edges, nil
}
