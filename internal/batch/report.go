// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/fetchsub/internal/acquire"
	"github.com/pdiddy/fetchsub/pkg/types"
)

// WriteReport writes reports to path as YAML, or as JSON when path ends in
// ".json".
func WriteReport(path string, reports []types.FileReport) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(reports, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(reports)
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := acquire.WriteFile(path, data); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
