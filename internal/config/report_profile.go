package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReportProfile is the letterhead and signature block printed on exported reports
type ReportProfile struct {
	Organization string `yaml:"organization"`
	City         string `yaml:"city"`
	SignerTitle  string `yaml:"signer_title"`
	SignerName   string `yaml:"signer_name"`
}

// DefaultReportProfile returns the profile used when no file is configured
func DefaultReportProfile() ReportProfile {
	return ReportProfile{
		City:        "Majalengka",
		SignerTitle: "Kepala Sekolah",
		SignerName:  "KOMARUDIN, S.Pd.I",
	}
}

// LoadReportProfile reads a YAML profile. An empty path returns the default profile;
// fields missing from the file keep their defaults.
func LoadReportProfile(path string) (ReportProfile, error) {
	profile := DefaultReportProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read report profile: %w", err)
	}

	var fromFile ReportProfile
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return profile, fmt.Errorf("parse report profile: %w", err)
	}

	if fromFile.Organization != "" {
		profile.Organization = fromFile.Organization
	}
	if fromFile.City != "" {
		profile.City = fromFile.City
	}
	if fromFile.SignerTitle != "" {
		profile.SignerTitle = fromFile.SignerTitle
	}
	if fromFile.SignerName != "" {
		profile.SignerName = fromFile.SignerName
	}
	return profile, nil
}
