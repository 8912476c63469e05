package cmd

import "golang.org/x/sys/windows"

var procGetOEMCP = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetOEMCP")

// OEMCodePage returns the code page console programs such as powercfg write in.
func OEMCodePage() uint32 {
	if err := procGetOEMCP.Find(); err != nil {
		return 65001
	}
	cp, _, _ := procGetOEMCP.Call()
	return uint32(cp)
}
