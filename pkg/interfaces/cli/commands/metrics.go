package commands

import (
	"fmt"
	"io"
	"os"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/vsinha/invsim/pkg/infrastructure/metrics"
)

// writeMetrics dumps the registry in the Prometheus text format
func writeMetrics(path string, reg *metrics.Registry) error {
	families, err := reg.Gatherer().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file %s: %w", path, err)
	}
	defer file.Close()

	if err := encodeMetrics(file, families); err != nil {
		return err
	}
	return file.Close()
}

func encodeMetrics(w io.Writer, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
