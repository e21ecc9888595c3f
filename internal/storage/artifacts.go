package storage

import (
	"fmt"
	"path/filepath"

	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/forest"
)

// Artifacts is everything a predictor needs for one variant.
// Encoders are only present for the encoded variant.
type Artifacts struct {
	Variant        features.Variant
	Model          *forest.Forest
	IssueEncoder   *features.LabelEncoder
	WeatherEncoder *features.LabelEncoder
}

// VariantDir returns the artifact directory for a variant under root.
func VariantDir(root string, v features.Variant) string {
	return filepath.Join(root, string(v))
}

// Files returns the artifact names written for a variant.
func Files(v features.Variant) []string {
	if v == features.VariantEncoded {
		return []string{ModelFile, IssueEncoderFile, WeatherEncoderFile}
	}
	return []string{ModelFile}
}

// SaveArtifacts writes the model and, for the encoded variant, both encoders.
func (s *Store) SaveArtifacts(a *Artifacts) error {
	if a.Model == nil {
		return fmt.Errorf("no model to save")
	}
	if err := s.Save(ModelFile, a.Model); err != nil {
		return err
	}
	if a.Variant != features.VariantEncoded {
		return nil
	}
	if a.IssueEncoder == nil || a.WeatherEncoder == nil {
		return fmt.Errorf("encoded variant requires issue and weather encoders")
	}
	if err := s.Save(IssueEncoderFile, a.IssueEncoder); err != nil {
		return err
	}
	return s.Save(WeatherEncoderFile, a.WeatherEncoder)
}

// LoadArtifacts reads the artifacts of variant v and checks that the model's
// columns match the variant's schema.
func (s *Store) LoadArtifacts(v features.Variant) (*Artifacts, error) {
	a := &Artifacts{
		Variant: v,
		Model:   forest.New(forest.DefaultConfig()),
	}
	if err := s.Load(ModelFile, a.Model); err != nil {
		return nil, err
	}
	if err := features.CheckColumns(v.Columns(), a.Model.Columns()); err != nil {
		return nil, fmt.Errorf("model in %s does not match the %s schema: %w", s.dir, v, err)
	}

	if v != features.VariantEncoded {
		return a, nil
	}

	a.IssueEncoder = &features.LabelEncoder{}
	if err := s.Load(IssueEncoderFile, a.IssueEncoder); err != nil {
		return nil, err
	}
	a.WeatherEncoder = &features.LabelEncoder{}
	if err := s.Load(WeatherEncoderFile, a.WeatherEncoder); err != nil {
		return nil, err
	}
	return a, nil
}
