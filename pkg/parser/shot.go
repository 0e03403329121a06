package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/helmcode/cricshot/pkg/model"
)

var (
	// ErrEmptyResponse means the model returned no payload at all.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrInvalidAdvice means the payload did not match the advice schema.
	ErrInvalidAdvice = errors.New("invalid shot advice")
)

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n?|```")

// rawAdvice mirrors model.ShotAdvice with pointers so absent fields can be
// told apart from zero values.
type rawAdvice struct {
	ShotName       *string   `json:"shotName" yaml:"shotName"`
	Description    *string   `json:"description" yaml:"description"`
	ExecutionTips  *[]string `json:"executionTips" yaml:"executionTips"`
	RiskLevel      *string   `json:"riskLevel" yaml:"riskLevel"`
	PlacementAngle *float64  `json:"placementAngle" yaml:"placementAngle"`
	FieldingRegion *string   `json:"fieldingRegion" yaml:"fieldingRegion"`
}

// ParseShotResponse decodes a model reply into a complete ShotAdvice. It
// never returns partial advice: any missing or malformed field is an error.
func ParseShotResponse(raw string) (*model.ShotAdvice, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var r rawAdvice
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAdvice, err)
	}
	return r.complete()
}

// ParseShotYAML is ParseShotResponse for a YAML document, such as the
// advice section written by the yaml output format.
func ParseShotYAML(data []byte) (*model.ShotAdvice, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmptyResponse
	}

	var r rawAdvice
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAdvice, err)
	}
	return r.complete()
}

func (r rawAdvice) complete() (*model.ShotAdvice, error) {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("shotName", r.ShotName != nil)
	check("description", r.Description != nil)
	check("executionTips", r.ExecutionTips != nil)
	check("riskLevel", r.RiskLevel != nil)
	check("placementAngle", r.PlacementAngle != nil)
	check("fieldingRegion", r.FieldingRegion != nil)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidAdvice, strings.Join(missing, ", "))
	}

	risk, err := model.ParseRiskLevel(*r.RiskLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAdvice, err)
	}

	return ValidateAdvice(&model.ShotAdvice{
		ShotName:       *r.ShotName,
		Description:    *r.Description,
		ExecutionTips:  *r.ExecutionTips,
		RiskLevel:      risk,
		PlacementAngle: *r.PlacementAngle,
		FieldingRegion: *r.FieldingRegion,
	})
}

// ValidateAdvice checks an already-decoded advice record and returns a
// normalised copy: text trimmed, blank tips dropped, angle in [0,360).
func ValidateAdvice(a *model.ShotAdvice) (*model.ShotAdvice, error) {
	if a == nil {
		return nil, ErrEmptyResponse
	}
	out := &model.ShotAdvice{
		ShotName:       strings.TrimSpace(a.ShotName),
		Description:    strings.TrimSpace(a.Description),
		RiskLevel:      a.RiskLevel,
		FieldingRegion: strings.TrimSpace(a.FieldingRegion),
	}
	for _, tip := range a.ExecutionTips {
		if tip = strings.TrimSpace(tip); tip != "" {
			out.ExecutionTips = append(out.ExecutionTips, tip)
		}
	}

	switch {
	case out.ShotName == "":
		return nil, fmt.Errorf("%w: shotName is empty", ErrInvalidAdvice)
	case out.Description == "":
		return nil, fmt.Errorf("%w: description is empty", ErrInvalidAdvice)
	case out.FieldingRegion == "":
		return nil, fmt.Errorf("%w: fieldingRegion is empty", ErrInvalidAdvice)
	case len(out.ExecutionTips) == 0:
		return nil, fmt.Errorf("%w: executionTips has no items", ErrInvalidAdvice)
	case !out.RiskLevel.Valid():
		return nil, fmt.Errorf("%w: unknown riskLevel %q", ErrInvalidAdvice, a.RiskLevel)
	case math.IsNaN(a.PlacementAngle) || math.IsInf(a.PlacementAngle, 0):
		return nil, fmt.Errorf("%w: placementAngle is not finite", ErrInvalidAdvice)
	}
	out.PlacementAngle = NormalizeAngle(a.PlacementAngle)
	return out, nil
}

// NormalizeAngle wraps degrees into [0,360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// stripFences removes markdown code fences such as ```json ... ``` so JSON can be parsed
func stripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}
