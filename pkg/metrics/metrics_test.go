package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStatusTransitionsTotal(t *testing.T) {
	c := StatusTransitionsTotal.WithLabelValues("applied", "shortlisted")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestApplicationsCreatedTotal(t *testing.T) {
	before := testutil.ToFloat64(ApplicationsCreatedTotal)
	ApplicationsCreatedTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ApplicationsCreatedTotal))
}
