package arch

// ABI register indices into Context.X, valid under both build tags since
// X is shaped identically ([NumGPR]uint64, 1-indexed from x1) in the
// real and sim Context. These are the registers the syscall ABI of §4.7
// and task setup of §4.1 name directly: ra/sp for context setup, a0..a2
// and a7 for the 6-argument syscall convention's number and first three
// arguments (the baseline calls never need more than three).
const (
	RAIndex = 0 // ra, x1
	SPRegIndex = 1 // sp, x2

	A0Index = 9  // a0, x10
	A1Index = 10 // a1, x11
	A2Index = 11 // a2, x12
	A7Index = 16 // a7, x17
)

// EntryRegIndex is the ABI register used to pass a fresh task's argument
// (a0), reusing the same register the syscall convention's first
// argument occupies.
const EntryRegIndex = A0Index
