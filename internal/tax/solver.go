package tax

import (
	"context"
	"math"
	"sort"

	"github.com/iwvelando/salary-tax-compare/pkg/constants"
	"github.com/iwvelando/salary-tax-compare/pkg/mathutil"
)

// scanCheckInterval is how many candidates the linear scan tries between
// context checks.
const scanCheckInterval = 4096

// maxReverseTarget keeps target*ReverseSearchMultiplier inside int64.
const maxReverseTarget = float64(math.MaxInt64/constants.ReverseSearchMultiplier) / 2

// ReverseCTC finds the smallest integer gross package under the Standard
// method whose net income reaches target. Candidates run from int(target) up
// to, but excluding, int(3*target). The second return value is false when no
// candidate in that range qualifies.
//
// Net income only falls when gross crosses the rebate limit, so each side of
// that cliff is searched with bisection. Configurations whose marginal rate
// with cess exceeds 1 are scanned linearly, and that scan stops with
// ctx.Err() once ctx is done.
func ReverseCTC(ctx context.Context, cfg *Config, target float64) (int64, bool, error) {
	if !mathutil.IsFinite(target) || target <= 0 || target > maxReverseTarget {
		return 0, false, nil
	}

	lo := int64(target)
	hi := int64(target * constants.ReverseSearchMultiplier)
	if hi <= lo {
		return 0, false, nil
	}

	if !netIsMonotone(cfg) {
		return scanCTC(ctx, cfg, target, lo, hi)
	}

	cliff := hi
	if cfg.RebateLimit < float64(hi) {
		cliff = int64(math.Floor(cfg.RebateLimit))
	}

	if lo <= cliff {
		end := min(hi, cliff+1)
		if ctc, ok := searchCTC(cfg, target, lo, end); ok {
			return ctc, true, nil
		}
		lo = end
	}
	ctc, ok := searchCTC(cfg, target, lo, hi)
	return ctc, ok, nil
}

// searchCTC bisects [lo, hi) for the first gross whose net meets target.
func searchCTC(cfg *Config, target float64, lo, hi int64) (int64, bool) {
	if hi <= lo {
		return 0, false
	}
	n := int(hi - lo)
	i := sort.Search(n, func(i int) bool {
		return standardNet(cfg, lo+int64(i)) >= target
	})
	if i == n {
		return 0, false
	}
	return lo + int64(i), true
}

// scanCTC tries every candidate in [lo, hi) in order.
func scanCTC(ctx context.Context, cfg *Config, target float64, lo, hi int64) (int64, bool, error) {
	for ctc := lo; ctc < hi; ctc++ {
		if (ctc-lo)%scanCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, false, err
			}
		}
		if standardNet(cfg, ctc) >= target {
			return ctc, true, nil
		}
	}
	return 0, false, nil
}

func standardNet(cfg *Config, gross int64) float64 {
	result, err := ComputeStandard(cfg, float64(gross))
	if err != nil {
		return math.Inf(-1)
	}
	return result.NetIncome
}

func netIsMonotone(cfg *Config) bool {
	for _, slab := range cfg.Slabs {
		if slab.Rate*(1+cfg.CessRate) > 1 {
			return false
		}
	}
	return true
}
