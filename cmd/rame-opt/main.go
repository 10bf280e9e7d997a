// Command rame-opt runs the optimizer pipeline over a RAM program and
// writes the rewritten program.
package main

import (
	"flag"
	"fmt"
	"os"

	"rame"
	"rame/internal/driver"
)

func main() {
	bitsFlag := flag.String("bits", "i16", "word type: i8,i16,i32,i64,u8,u16,u32,u64")
	outFlag := flag.String("o", "a.out.ram", "output file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rame-opt [flags] <program.ram>")
		os.Exit(2)
	}
	infile := flag.Arg(0)

	bits, err := driver.ParseBits(*bitsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(2)
	}

	switch bits {
	case driver.Int8:
		optimizeBits[int8](infile, *outFlag)
	case driver.Int16:
		optimizeBits[int16](infile, *outFlag)
	case driver.Int32:
		optimizeBits[int32](infile, *outFlag)
	case driver.Int64:
		optimizeBits[int64](infile, *outFlag)
	case driver.Uint8:
		optimizeBits[uint8](infile, *outFlag)
	case driver.Uint16:
		optimizeBits[uint16](infile, *outFlag)
	case driver.Uint32:
		optimizeBits[uint32](infile, *outFlag)
	case driver.Uint64:
		optimizeBits[uint64](infile, *outFlag)
	}
}

func optimizeBits[T rame.Int](infile, outfile string) {
	in, err := os.Open(infile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	code, err := rame.Parse[T](in, rame.DefaultParseOptions())
	in.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, driver.FormatParseError(infile, err))
		os.Exit(1)
	}

	optimized, err := rame.Optimize(code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outfile)
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
