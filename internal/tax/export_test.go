package tax

import "context"

// ScanCTC exposes the linear reverse search for equivalence tests.
func ScanCTC(cfg *Config, target float64) (int64, bool) {
	ctc, ok, _ := scanCTC(context.Background(), cfg, target, int64(target), int64(target*3))
	return ctc, ok
}
