//go:build !amd64 && !arm64

package cpufeat

func detectArch() Level {
	return Scalar
}
