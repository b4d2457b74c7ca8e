package platform

// CopyMethod identifies which strategy moved the bytes of a transfer.
type CopyMethod int

const (
	ReadWrite CopyMethod = iota // buffered reader/writer pipeline
	Splice                      // Linux splice(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case Splice:
		return "splice"
	default:
		return "unknown"
	}
}
