//go:build amd64

package cpufeat

import "golang.org/x/sys/cpu"

func detectArch() Level {
	if cpu.X86.HasAVX512F && cpu.X86.HasAVX512DQ {
		return AVX512
	}
	if cpu.X86.HasAVX2 && cpu.X86.HasFMA {
		return AVX2FMA
	}
	return Scalar
}
