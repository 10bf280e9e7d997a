// Command rame-test runs every "# TEST: [in,...] => [out,...]" header
// embedded in a RAM program against both the as-given and the
// optimized code, reporting per-case pass/fail and exiting 1 if any
// case failed (0 otherwise).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"rame"
	"rame/internal/driver"
)

const testHeaderPrefix = "# TEST: "

type rawCase struct {
	input, output string
}

func parseHeaders(path string) ([]rawCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cases []rawCase
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, testHeaderPrefix)
		if idx < 0 {
			continue
		}
		rest := line[idx+len(testHeaderPrefix):]
		in, out, ok := strings.Cut(rest, "=>")
		if !ok {
			continue
		}
		cases = append(cases, rawCase{input: strings.TrimSpace(in), output: strings.TrimSpace(out)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cases, nil
}

func parseVec[T rame.Int](s string) ([]T, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]T, 0, len(parts))
	for _, p := range parts {
		v, err := rame.ParseWord[T](strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func main() {
	bitsFlag := flag.String("bits", "i16", "word type: i8,i16,i32,i64,u8,u16,u32,u64")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rame-test [flags] <program.ram>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	bits, err := driver.ParseBits(*bitsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(2)
	}

	cases, err := parseHeaders(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	if len(cases) == 0 {
		fmt.Fprintf(os.Stderr, "error: no \"%s\" headers found in %s\n", strings.TrimSpace(testHeaderPrefix), path)
		os.Exit(1)
	}

	var failed bool
	switch bits {
	case driver.Int8:
		failed = runTests[int8](path, cases)
	case driver.Int16:
		failed = runTests[int16](path, cases)
	case driver.Int32:
		failed = runTests[int32](path, cases)
	case driver.Int64:
		failed = runTests[int64](path, cases)
	case driver.Uint8:
		failed = runTests[uint8](path, cases)
	case driver.Uint16:
		failed = runTests[uint16](path, cases)
	case driver.Uint32:
		failed = runTests[uint32](path, cases)
	case driver.Uint64:
		failed = runTests[uint64](path, cases)
	}
	if failed {
		os.Exit(1)
	}
}

func runTests[T rame.Int](path string, cases []rawCase) (anyFailed bool) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	code, err := rame.Parse[T](f, rame.DefaultParseOptions())
	f.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, driver.FormatParseError(path, err))
		os.Exit(1)
	}

	optimized, err := rame.Optimize(code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	for i, tc := range cases {
		in, err := parseVec[T](tc.input)
		if err != nil {
			fmt.Printf("FAIL %s:%d: bad input %q: %s\n", path, i, tc.input, err)
			anyFailed = true
			continue
		}
		want, err := parseVec[T](tc.output)
		if err != nil {
			fmt.Printf("FAIL %s:%d: bad output %q: %s\n", path, i, tc.output, err)
			anyFailed = true
			continue
		}

		rawOut, rawErr := runOnce(code, in)
		optOut, optErr := runOnce(optimized, in)

		ok := rawErr == nil && optErr == nil && sliceEqual(rawOut, want) && sliceEqual(optOut, want)
		label := fmt.Sprintf("# TEST: %v => %v", tc.input, tc.output)
		if ok {
			fmt.Printf("PASS %s:%d: %s\n", path, i, label)
			continue
		}
		anyFailed = true
		fmt.Printf("FAIL %s:%d: %s (raw=%v err=%v, optimized=%v err=%v)\n", path, i, label, rawOut, rawErr, optOut, optErr)
	}
	return anyFailed
}

func runOnce[T rame.Int](code rame.Code[T], in []T) ([]T, error) {
	vm := rame.New(code, rame.NewSliceInput(in))
	return vm.Run()
}

func sliceEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
