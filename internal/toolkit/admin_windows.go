package toolkit

import "golang.org/x/sys/windows"

// IsAdmin checks whether the current process is running with administrator privileges.
func IsAdmin() bool {
	var sid *windows.SID

	// BUILTIN\Administrators
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	// Token(0) checks the process token, which only reports membership when
	// the process itself is elevated.
	isMember, err := windows.Token(0).IsMember(sid)
	if err != nil {
		return false
	}
	return isMember
}
