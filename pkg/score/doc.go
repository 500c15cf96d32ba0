// Package score holds the numeric core of trustscore: the unit-interval
// scalers shared by every metric, the stable fallback used when an artifact
// cannot be inspected locally, the weighted net-score [Combiner], latency
// measurement and the calibration overrides for reference artifacts.
package score
