package service

import (
	"fmt"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/jengzang/heatgrid-backend-go/internal/models"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CityService serves the city summary and the 3D model asset
type CityService struct {
	summaryPath string
	modelPath   string
	Log         logrus.FieldLogger

	mu      sync.Mutex
	summary *models.CitySummary
}

// NewCityService creates a new city service
func NewCityService(summaryPath, modelPath string) *CityService {
	return &CityService{
		summaryPath: summaryPath,
		modelPath:   modelPath,
		Log:         logrus.StandardLogger(),
	}
}

// Summary returns the city summary. A document that fails to load is
// retried on the next call; callers show a loading placeholder meanwhile.
func (s *CityService) Summary() (*models.CitySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.summary != nil {
		return s.summary, nil
	}

	data, err := os.ReadFile(s.summaryPath)
	if err != nil {
		s.Log.WithError(err).Warn("city summary unavailable")
		return nil, fmt.Errorf("failed to read city summary: %w", err)
	}

	var summary models.CitySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		s.Log.WithError(err).Warn("city summary malformed")
		return nil, fmt.Errorf("failed to decode city summary: %w", err)
	}

	s.summary = &summary
	return s.summary, nil
}

// ModelPath returns the path of the 3D asset if it exists
func (s *CityService) ModelPath() (string, bool) {
	if s.modelPath == "" {
		return "", false
	}
	info, err := os.Stat(s.modelPath)
	if err != nil || info.IsDir() {
		return "", false
	}
	return s.modelPath, true
}
