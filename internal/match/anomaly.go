package match

import "log"

// OnAnomaly, when set, is notified of every anomaly in addition to the log
// line. The API layer points it at a prometheus counter.
var OnAnomaly func(kind string)

// anomaly records a state combination that should not occur but is safe to
// skip. The match carries on; the log line keeps enough context to chase
// the cause later.
func anomaly(kind, format string, args ...interface{}) {
	log.Printf("⚠️ anomaly [%s]: "+format, append([]interface{}{kind}, args...)...)
	if OnAnomaly != nil {
		OnAnomaly(kind)
	}
}
