// Command z80run is a small demonstration harness for the z80 core and
// machine shell: load a flat binary image, run it for a bounded number of
// frames or until HALT, and print the resulting register file. It exists to
// exercise the library from the command line, the way oisee/z80-optimizer's
// cmd/z80opt exercises its search package.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/z80core/z80emu/machine"
	"github.com/z80core/z80emu/testmem"
	"github.com/z80core/z80emu/z80"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "z80run",
		Short: "Run a flat Z80 binary image against the z80core emulation core",
	}

	var origin uint16
	var loadAddr uint16
	var maxFrames int
	var cyclesPerFrame uint64
	var untilHalt bool

	runCmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load a binary image and run it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cpu, err := buildCPU(args[0], loadAddr, origin)
			if err != nil {
				return err
			}

			shell := machine.New(cpu, 3500000, cyclesPerFrame)
			if untilHalt {
				shell.Context.Mode = machine.ModeUntilHalt
			}

			frames := 0
			for frames < maxFrames || maxFrames == 0 {
				reason := shell.ExecuteMachineLoop()
				frames++
				if reason == machine.ReasonUntilHalt {
					break
				}
			}

			printRegs(cpu)
			fmt.Printf("frames executed: %d\n", frames)
			return nil
		},
	}
	runCmd.Flags().Uint16Var(&origin, "pc", 0, "initial program counter")
	runCmd.Flags().Uint16Var(&loadAddr, "load-addr", 0, "address the image is loaded at")
	runCmd.Flags().IntVar(&maxFrames, "max-frames", 1, "stop after this many frames (0 = unbounded, combine with --until-halt)")
	runCmd.Flags().Uint64Var(&cyclesPerFrame, "cycles-per-frame", 70000, "T-states per frame (70000 ~= one ZX Spectrum 50Hz frame at 3.5MHz)")
	runCmd.Flags().BoolVar(&untilHalt, "until-halt", false, "stop as soon as the CPU executes HALT")

	var stepCount int
	stepCmd := &cobra.Command{
		Use:   "step <image>",
		Short: "Load an image and single-step it, printing registers after each instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cpu, err := buildCPU(args[0], loadAddr, origin)
			if err != nil {
				return err
			}

			for i := 0; i < stepCount; i++ {
				cpu.Step()
				printRegs(cpu)
			}
			return nil
		},
	}
	stepCmd.Flags().Uint16Var(&origin, "pc", 0, "initial program counter")
	stepCmd.Flags().Uint16Var(&loadAddr, "load-addr", 0, "address the image is loaded at")
	stepCmd.Flags().IntVar(&stepCount, "count", 1, "number of instructions to execute")

	regsCmd := &cobra.Command{
		Use:   "regs <image>",
		Short: "Load an image and print the CPU's reset-state registers, without executing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cpu, err := buildCPU(args[0], loadAddr, origin)
			if err != nil {
				return err
			}
			printRegs(cpu)
			return nil
		},
	}
	regsCmd.Flags().Uint16Var(&origin, "pc", 0, "initial program counter")
	regsCmd.Flags().Uint16Var(&loadAddr, "load-addr", 0, "address the image is loaded at")

	loadCmd := &cobra.Command{
		Use:   "load <image>",
		Short: "Load an image into memory and report where it landed, without constructing a CPU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			bus := testmem.NewBus()
			bus.LoadAt(loadAddr, data)

			fmt.Printf("loaded %d bytes at %#04x-%#04x\n", len(data), loadAddr, int(loadAddr)+len(data)-1)
			return nil
		},
	}
	loadCmd.Flags().Uint16Var(&loadAddr, "load-addr", 0, "address to load the image at")

	rootCmd.AddCommand(runCmd, stepCmd, regsCmd, loadCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// buildCPU reads image from disk, loads it into a fresh testmem.Bus at
// loadAddr, and constructs a CPU with PC set to origin. Shared by every
// subcommand that needs a runnable CPU rather than just a loaded image.
func buildCPU(image string, loadAddr, origin uint16) (*z80.CPU, error) {
	data, err := os.ReadFile(image)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	bus := testmem.NewBus()
	bus.LoadAt(loadAddr, data)

	clock := z80.NewClock(nil)
	cpu, err := z80.New(bus, clock)
	if err != nil {
		return nil, fmt.Errorf("constructing CPU: %w", err)
	}
	cpu.Regs.PC = origin
	return cpu, nil
}

func printRegs(cpu *z80.CPU) {
	r := cpu.Regs
	fmt.Printf(
		"AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X SP=%04X PC=%04X  I=%02X R=%02X IM=%d IFF1=%v IFF2=%v  tacts=%d\n",
		r.AF(), r.BC(), r.DE(), r.HL(), r.IX, r.IY, r.SP, r.PC,
		r.I, r.R, r.IM, r.IFF1, r.IFF2, cpu.Clock.Tacts(),
	)
}
