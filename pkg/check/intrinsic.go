package check

// intrinsics is the closed set of built-in call names resolved directly to
// ABI calls or instructions rather than to a user function (§4.4 "Special
// call recognition").
var intrinsics = map[string]bool{
	"len": true, "ord": true, "chr": true, "abs": true, "min": true, "max": true,
	"sizeof": true,
	"dmb": true, "dsb": true, "isb": true, "wfi": true, "wfe": true, "sev": true,
	"clz": true, "rbit": true, "rev": true, "rev16": true,
	"critical_enter": true, "critical_exit": true, "clrex": true,
	"print": true, "input": true, "range": true,
}

func isIntrinsicPrefixed(name, prefix string) bool {
	if len(name) <= len(prefix) {
		return false
	}

	return name[:len(prefix)] == prefix
}

// isIntrinsic reports whether name is one of the built-ins, including the
// open-ended atomic_*/bit_*/bits_* families.
func isIntrinsic(name string) bool {
	if intrinsics[name] {
		return true
	}

	return isIntrinsicPrefixed(name, "atomic_") || isIntrinsicPrefixed(name, "bit_") || isIntrinsicPrefixed(name, "bits_")
}
