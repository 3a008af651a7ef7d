package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackDBOperationObservesSample(t *testing.T) {
	before := testutil.CollectAndCount(DBOperationDuration)

	func() {
		defer TrackDBOperation("query")(time.Now())
		time.Sleep(time.Millisecond)
	}()

	// The deferred call materializes the labeled series.
	assert.Equal(t, before+1, testutil.CollectAndCount(DBOperationDuration))
}
