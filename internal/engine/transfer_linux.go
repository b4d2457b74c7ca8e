//go:build linux

package engine

import "errors"

func transfer(acct *Accounting, req Request) error {
	if req.NoZeroCopy {
		return copyBuffered(acct, req)
	}
	sc, ok := newSpliceCopier(req)
	if !ok {
		return copyBuffered(acct, req)
	}
	err := sc.run(acct)
	sc.close()
	if errors.Is(err, errSpliceUnsupported) {
		*acct = Accounting{}
		return copyBuffered(acct, req)
	}
	return err
}
