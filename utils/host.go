package utils

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// HostInfo describes the CPU the trainer runs on, for the startup banner.
func HostInfo() string {
	brand := strings.TrimSpace(cpuid.CPU.BrandName)
	if brand == "" {
		brand = "unknown CPU"
	}

	var simd []string
	if cpuid.CPU.Supports(cpuid.AVX2) {
		simd = append(simd, "avx2")
	}
	if cpuid.CPU.Supports(cpuid.FMA3) {
		simd = append(simd, "fma3")
	}
	if cpuid.CPU.Supports(cpuid.AVX512F) {
		simd = append(simd, "avx512f")
	}
	if cpuid.CPU.Supports(cpuid.ASIMD) {
		simd = append(simd, "asimd")
	}
	features := "none"
	if len(simd) > 0 {
		features = strings.Join(simd, ",")
	}

	return fmt.Sprintf("%s (%s/%s, %d cores, %d threads, simd: %s)",
		brand, runtime.GOOS, runtime.GOARCH,
		cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, features)
}
