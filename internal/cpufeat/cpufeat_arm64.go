//go:build arm64

package cpufeat

import "golang.org/x/sys/cpu"

func detectArch() Level {
	if cpu.ARM64.HasASIMD {
		return NEON
	}
	return Scalar
}
