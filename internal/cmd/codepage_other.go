//go:build !windows

package cmd

func OEMCodePage() uint32 { return 65001 }
