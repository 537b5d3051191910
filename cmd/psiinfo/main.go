// Command psiinfo prints the SIMD capability level psi's kernel
// backends will dispatch to on this host, mirroring the teacher's own
// cmd/cpuinfo diagnostic.
package main

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/le-hachem/psi/internal/cpufeat"
)

func main() {
	fmt.Printf("GOOS: %s\n", runtime.GOOS)
	fmt.Printf("GOARCH: %s\n", runtime.GOARCH)
	fmt.Printf("NumCPU: %d\n", runtime.NumCPU())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	level := cpufeat.Detect()
	fmt.Printf("psi kernel level: %s\n", level)
	fmt.Printf("psi batch width: %d index pairs/coset per unrolled iteration\n", level.Width())
	fmt.Println()

	switch runtime.GOARCH {
	case "arm64":
		printARM64Features()
	case "amd64":
		printAMD64Features()
	default:
		fmt.Println("no architecture-specific SIMD detection on this GOARCH; falling back to Scalar")
	}
}

func printARM64Features() {
	fmt.Println("=== golang.org/x/sys/cpu.ARM64 ===")
	fmt.Printf("  HasASIMD: %v (NEON baseline)\n", cpu.ARM64.HasASIMD)
}

func printAMD64Features() {
	fmt.Println("=== golang.org/x/sys/cpu.X86 ===")
	fmt.Printf("  HasAVX2:     %v\n", cpu.X86.HasAVX2)
	fmt.Printf("  HasFMA:      %v\n", cpu.X86.HasFMA)
	fmt.Printf("  HasAVX512F:  %v\n", cpu.X86.HasAVX512F)
	fmt.Printf("  HasAVX512DQ: %v\n", cpu.X86.HasAVX512DQ)
}
