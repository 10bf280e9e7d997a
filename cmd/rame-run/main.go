// Command rame-run executes a RAM program (optionally compiled from
// source, optionally optimized first), printing its output stream.
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

func main() {
	bitsFlag := flag.String("bits", "i16", "word type: i8,i16,i32,i64,u8,u16,u32,u64")
	optimizeFlag := flag.Bool("optimize", false, "run the optimizer before executing")
	debugFlag := flag.Bool("debug", false, "single-step interactively")
	inputFlag := flag.String("input", "", "comma-separated input values; omit to prompt on stdin")
	compileFlag := flag.String("compile", "", "path to an external compiler collaborator to run before execution")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rame-run [flags] <program.ram>")
		os.Exit(2)
	}
	infile := flag.Arg(0)

	bits, err := driver.ParseBits(*bitsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(2)
	}

	d := driver.New().Infile(infile)
	if *compileFlag != "" {
		d = d.Compile(*compileFlag)
	}
	path, cleanup, err := d.Drive()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	defer cleanup()

	switch bits {
	case driver.Int8:
		runBits[int8](path, *optimizeFlag, *debugFlag, *inputFlag)
	case driver.Int16:
		runBits[int16](path, *optimizeFlag, *debugFlag, *inputFlag)
	case driver.Int32:
		runBits[int32](path, *optimizeFlag, *debugFlag, *inputFlag)
	case driver.Int64:
		runBits[int64](path, *optimizeFlag, *debugFlag, *inputFlag)
	case driver.Uint8:
		runBits[uint8](path, *optimizeFlag, *debugFlag, *inputFlag)
	case driver.Uint16:
		runBits[uint16](path, *optimizeFlag, *debugFlag, *inputFlag)
	case driver.Uint32:
		runBits[uint32](path, *optimizeFlag, *debugFlag, *inputFlag)
	case driver.Uint64:
		runBits[uint64](path, *optimizeFlag, *debugFlag, *inputFlag)
	}
}

func runBits[T rame.Int](path string, optimize, debug bool, inputSpec string) {
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

	if optimize {
		code, err = rame.Optimize(code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
	}

	var input rame.Input[T]
	if inputSpec == "" {
		input = driver.NewStdinPromptReader[T]()
	} else {
		input = parseInputList[T](inputSpec)
	}

	vm := rame.New(code, input)
	if debug {
		runDebug(vm)
		return
	}

	out, err := vm.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, driver.FormatRunError(vm, err))
		os.Exit(1)
	}
	for _, v := range out {
		fmt.Println(rame.FormatWord(v))
	}
}

func parseInputList[T rame.Int](spec string) *rame.SliceInput[T] {
	parts := strings.Split(spec, ",")
	vals := make([]T, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := rame.ParseWord[T](p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: -input: %q: %s\n", p, err)
			os.Exit(2)
		}
		vals = append(vals, v)
	}
	return rame.NewSliceInput(vals)
}

// runDebug drives the interpreter one Step at a time, printing state
// before each step and accepting n(ext)/c(ontinue)/q(uit). RAM
// programs have no labels or breakpoint names, only raw Ir indices.
func runDebug[T rame.Int](vm *rame.Ram[T]) {
	stdin := bufio.NewScanner(os.Stdin)
	running := false
	for {
		if vm.Current().IsStop() {
			fmt.Println("stopped.")
			printOutput(vm)
			return
		}
		fmt.Printf("%d: %s", int(vm.Ir()), vm.Current())
		if acc, ok := vm.PeekRegister(0); ok {
			fmt.Printf("  (acc=%s)", rame.FormatWord(acc))
		}
		fmt.Println()

		if !running {
			fmt.Print("(n)ext, (c)ontinue, (q)uit > ")
			if !stdin.Scan() {
				return
			}
			switch strings.TrimSpace(stdin.Text()) {
			case "c":
				running = true
			case "q":
				return
			}
		}

		if err := vm.Step(); err != nil {
			fmt.Fprintln(os.Stderr, driver.FormatRunError(vm, err))
			os.Exit(1)
		}
	}
}

func printOutput[T rame.Int](vm *rame.Ram[T]) {
	for _, v := range vm.Output() {
		fmt.Println(rame.FormatWord(v))
	}
}
