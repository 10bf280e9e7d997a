// Command rame-cc invokes the external compiler collaborator to turn
// a higher-level source file into a RAM text program, optionally
// optimizing the result.
package main

import (
	"flag"
	"fmt"
	"os"

	"rame"
	"rame/internal/driver"
)

func main() {
	ccFlag := flag.String("cc", "", "path to the external compiler collaborator binary (required)")
	outFlag := flag.String("o", "a.out.ram", "output file")
	optimizeFlag := flag.Bool("O", false, "optimize the compiled program")
	bitsFlag := flag.String("bits", "i16", "word type: i8,i16,i32,i64,u8,u16,u32,u64")
	flag.Parse()

	if *ccFlag == "" {
		fmt.Fprintln(os.Stderr, "error: -cc is required")
		os.Exit(2)
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rame-cc -cc <compiler> [flags] <source-file>")
		os.Exit(2)
	}
	infile := flag.Arg(0)

	bits, err := driver.ParseBits(*bitsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(2)
	}

	if err := driver.RunCompiler(*ccFlag, infile, *outFlag); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	if !*optimizeFlag {
		return
	}

	switch bits {
	case driver.Int8:
		optimizeInPlace[int8](*outFlag)
	case driver.Int16:
		optimizeInPlace[int16](*outFlag)
	case driver.Int32:
		optimizeInPlace[int32](*outFlag)
	case driver.Int64:
		optimizeInPlace[int64](*outFlag)
	case driver.Uint8:
		optimizeInPlace[uint8](*outFlag)
	case driver.Uint16:
		optimizeInPlace[uint16](*outFlag)
	case driver.Uint32:
		optimizeInPlace[uint32](*outFlag)
	case driver.Uint64:
		optimizeInPlace[uint64](*outFlag)
	}
}

func optimizeInPlace[T rame.Int](path string) {
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

	out, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := optimized.Write(out); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
