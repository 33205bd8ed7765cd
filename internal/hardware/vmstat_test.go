package hardware

import "testing"

const vmstatFixture = `Mach Virtual Memory Statistics: (page size of 16384 bytes)
Pages free:                              100000.
Pages active:                            500000.
Pages inactive:                          200000.
Pages speculative:                        50000.
Pages throttled:                              0.
Pages wired down:                        300000.
`

func TestParseVMStat(t *testing.T) {
	// (100000 + 200000 + 50000) pages * 16384 bytes = 5.34GB
	if got := parseVMStat(vmstatFixture); got != 5.3 {
		t.Fatalf("parseVMStat = %v, want 5.3", got)
	}
}

func TestParseVMStatDefaultPageSize(t *testing.T) {
	// No page-size header: 4096-byte pages assumed.
	content := "Pages free:  262144.\nPages inactive: 0.\nPages speculative: 0.\n"
	if got := parseVMStat(content); got != 1.0 {
		t.Fatalf("parseVMStat = %v, want 1.0", got)
	}
}

func TestParseVMStatEmpty(t *testing.T) {
	if got := parseVMStat(""); got != 0 {
		t.Fatalf("parseVMStat(empty) = %v, want 0", got)
	}
}
