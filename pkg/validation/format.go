// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/loan-amortization/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateStorageDriver checks if the storage driver is one of the supported
// backends. An empty driver is accepted and means in-memory storage.
func ValidateStorageDriver(driver string) error {
	switch driver {
	case "", constants.StorageDriverMemory, constants.StorageDriverFile,
		constants.StorageDriverRedis, constants.StorageDriverPostgres:
		return nil
	}
	return fmt.Errorf("expected storage driver of %s, %s, %s or %s, got %s",
		constants.StorageDriverMemory, constants.StorageDriverFile,
		constants.StorageDriverRedis, constants.StorageDriverPostgres, driver)
}
