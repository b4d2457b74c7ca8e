//go:build !linux

package engine

func transfer(acct *Accounting, req Request) error {
	return copyBuffered(acct, req)
}
