package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creative-approval-engine/internal/keywords"
)

func cleanImage() ImageFacts {
	return ImageFacts{Format: "PNG", Width: 400, Height: 400, Size: 2048, Contrast: 127.5}
}

func TestEvaluateImageProperties(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name string
		img  ImageFacts
		want []Finding
	}{
		{"clean", cleanImage(), nil},
		{
			name: "too small",
			img:  ImageFacts{Width: 100, Height: 100, Contrast: 60},
			want: []Finding{{SeverityReview, "Image resolution too low: 100x100px"}},
		},
		{
			name: "too tall collects every finding",
			img:  ImageFacts{Width: 400, Height: 10001, Contrast: 0},
			want: []Finding{
				{SeverityReject, "Image resolution too high: 400x10001px"},
				{SeverityReview, "Aspect ratio out of bounds (0.5-2.0): 0.04"},
				{SeverityReview, "Image contrast too low: 0.00"},
			},
		},
		{
			name: "narrow aspect",
			img:  ImageFacts{Width: 300, Height: 900, Contrast: 127.5},
			want: []Finding{{SeverityReview, "Aspect ratio out of bounds (0.5-2.0): 0.33"}},
		},
		{
			name: "wide aspect",
			img:  ImageFacts{Width: 1000, Height: 400, Contrast: 127.5},
			want: []Finding{{SeverityReview, "Aspect ratio out of bounds (0.5-2.0): 2.50"}},
		},
		{
			name: "boundaries are inclusive",
			img:  ImageFacts{Width: 400, Height: 200, Contrast: 15},
			want: nil,
		},
		{
			name: "low contrast",
			img:  ImageFacts{Width: 400, Height: 400, Contrast: 3.14159},
			want: []Finding{{SeverityReview, "Image contrast too low: 3.14"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateImageProperties(tt.img, th))
		})
	}
}

func TestEvaluateFilename(t *testing.T) {
	tb := keywords.Default()
	tests := []struct {
		name        string
		filename    string
		wantStatus  Status
		wantReasons []string
	}{
		{"clean", "summer_sale.png", StatusApproved, nil},
		{"prohibited", "tobacco_ad.png", StatusRejected, []string{"Prohibited term in filename: tobacco"}},
		{"case insensitive", "TOBACCO.PNG", StatusRejected, []string{"Prohibited term in filename: tobacco"}},
		{
			name:        "prohibited short-circuits restricted",
			filename:    "taxi_tobacco_iran.png",
			wantStatus:  StatusRejected,
			wantReasons: []string{"Prohibited term in filename: tobacco"},
		},
		{
			name:       "restricted themes",
			filename:   "taxi_vape.png",
			wantStatus: StatusRequiresReview,
			wantReasons: []string{
				"Restricted term in filename: taxi",
				"Restricted term in filename: vape",
			},
		},
		{"restricted country", "iran.png", StatusRequiresReview, []string{"Restricted country name in filename: iran"}},
		{
			name:       "themes before countries",
			filename:   "cuba_crypto.gif",
			wantStatus: StatusRequiresReview,
			wantReasons: []string{
				"Restricted term in filename: crypto",
				"Restricted country name in filename: cuba",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateFilename(tb, tt.filename)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantReasons, got.Reasons)
		})
	}
}

func TestEvaluateMetadata(t *testing.T) {
	tb := keywords.Default()
	tests := []struct {
		name        string
		meta        Metadata
		wantStatus  Status
		wantReasons []string
	}{
		{"empty", Metadata{}, StatusApproved, nil},
		{"plain market", Metadata{Market: "UK"}, StatusApproved, nil},
		{
			name:        "child placement with age-prohibited category",
			meta:        Metadata{Category: "alcohol", Placement: "school"},
			wantStatus:  StatusRejected,
			wantReasons: []string{"Child-related placement found: school. Category not allowed."},
		},
		{
			name:        "child audience with age-prohibited category",
			meta:        Metadata{Audience: "kids", Category: "alcohol"},
			wantStatus:  StatusRejected,
			wantReasons: []string{"Child-related audience found: kids. Category not allowed."},
		},
		{
			name:        "child audience alone",
			meta:        Metadata{Audience: "kids"},
			wantStatus:  StatusRequiresReview,
			wantReasons: []string{"Child-related audience found: kids"},
		},
		{
			name:        "child placement alone",
			meta:        Metadata{Placement: "school"},
			wantStatus:  StatusRequiresReview,
			wantReasons: []string{"Child-related placement found: school"},
		},
		{
			name:        "near school literal",
			meta:        Metadata{Placement: "NEAR_SCHOOL"},
			wantStatus:  StatusRequiresReview,
			wantReasons: []string{"Child-related placement found: NEAR_SCHOOL"},
		},
		{
			name:        "audience reported before placement",
			meta:        Metadata{Audience: "teens", Placement: "playground"},
			wantStatus:  StatusRequiresReview,
			wantReasons: []string{"Child-related audience found: teens"},
		},
		{
			name:        "child gate short-circuits later scans",
			meta:        Metadata{Audience: "kids", Category: "crypto", Market: "iran"},
			wantStatus:  StatusRequiresReview,
			wantReasons: []string{"Child-related audience found: kids"},
		},
		{
			name:        "prohibited category",
			meta:        Metadata{Category: "tobacco"},
			wantStatus:  StatusRejected,
			wantReasons: []string{"Prohibited term found in metadata: tobacco"},
		},
		{
			name:        "age-prohibited without child signal",
			meta:        Metadata{Category: "Craft Beer"},
			wantStatus:  StatusRejected,
			wantReasons: []string{"Age-prohibited term found in metadata: beer"},
		},
		{
			name:        "restricted category",
			meta:        Metadata{Category: "crypto"},
			wantStatus:  StatusRequiresReview,
			wantReasons: []string{"Restricted term found in metadata: crypto"},
		},
		{
			name:        "restricted market",
			meta:        Metadata{Market: "iran"},
			wantStatus:  StatusRequiresReview,
			wantReasons: []string{"Restricted country found in metadata: iran"},
		},
		{
			name:       "country outside market is ignored",
			meta:       Metadata{Category: "iran tours"},
			wantStatus: StatusApproved,
		},
		{
			name:       "restricted theme and country accumulate",
			meta:       Metadata{Market: "Syria", Category: "forex"},
			wantStatus: StatusRequiresReview,
			wantReasons: []string{
				"Restricted term found in metadata: forex",
				"Restricted country found in metadata: syria",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateMetadata(tb, tt.meta)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantReasons, got.Reasons)
		})
	}
}

func TestEvaluate_Approved(t *testing.T) {
	eng := NewEngine(DefaultThresholds(), keywords.Default())
	d := eng.Evaluate(Submission{
		Image:    cleanImage(),
		Filename: "test.png",
		Metadata: &Metadata{Market: "UK"},
	})

	assert.Equal(t, StatusApproved, d.Status)
	assert.Empty(t, d.Reasons)
	assert.NotNil(t, d.Reasons)
	assert.Equal(t, "PNG", d.Format)
	assert.Equal(t, 400, d.Width)
	assert.Equal(t, 400, d.Height)
	assert.Equal(t, 2048, d.Size)
}

func TestEvaluate_RejectOutranksReview(t *testing.T) {
	eng := NewEngine(DefaultThresholds(), keywords.Default())
	img := cleanImage()
	img.Width, img.Height = 300, 900

	d := eng.Evaluate(Submission{
		Image:    img,
		Filename: "taxi.png",
		Metadata: &Metadata{Category: "tobacco"},
	})

	assert.Equal(t, StatusRejected, d.Status)
	assert.Equal(t, []string{
		"Aspect ratio out of bounds (0.5-2.0): 0.33",
		"Restricted term in filename: taxi",
		"Prohibited term found in metadata: tobacco",
	}, d.Reasons)
}

func TestEvaluate_Idempotent(t *testing.T) {
	eng := NewEngine(DefaultThresholds(), keywords.Default())
	sub := Submission{
		Image:    ImageFacts{Format: "GIF", Width: 100, Height: 100, Size: 10, Contrast: 1},
		Filename: "iran_taxi.gif",
		Metadata: &Metadata{Audience: "kids"},
	}
	assert.Equal(t, eng.Evaluate(sub), eng.Evaluate(sub))
}

func TestEvaluate_NilMetadata(t *testing.T) {
	eng := NewEngine(DefaultThresholds(), keywords.Default())
	d := eng.Evaluate(Submission{Image: cleanImage(), Filename: "vape.jpg"})
	assert.Equal(t, StatusRequiresReview, d.Status)
	assert.Equal(t, []string{"Restricted term in filename: vape"}, d.Reasons)
}

func TestAggregate(t *testing.T) {
	img := cleanImage()

	d := Aggregate(img, nil, approved(), approved())
	assert.Equal(t, StatusApproved, d.Status)
	assert.Empty(t, d.Reasons)

	d = Aggregate(img,
		[]Finding{{SeverityReview, "a"}},
		Result{Status: StatusRejected, Reasons: []string{"b"}},
		Result{Status: StatusRequiresReview, Reasons: []string{"c"}},
	)
	assert.Equal(t, StatusRejected, d.Status)
	assert.Equal(t, []string{"a", "b", "c"}, d.Reasons)

	// a reason without a severity still cannot be APPROVED
	d = Aggregate(img, nil, Result{Status: StatusApproved, Reasons: []string{"x"}})
	assert.Equal(t, StatusRequiresReview, d.Status)
}

type stubSource struct {
	tb  keywords.Tables
	err error
}

func (s stubSource) LoadKeywords(context.Context) (keywords.Tables, error) { return s.tb, s.err }

func TestReloadKeywords(t *testing.T) {
	eng := NewEngine(DefaultThresholds(), keywords.Default())

	err := eng.ReloadKeywords(context.Background(), stubSource{err: errors.New("db down")})
	assert.Error(t, err)
	assert.Equal(t, StatusRejected, EvaluateFilename(eng.Keywords(), "tobacco.png").Status)

	tb, err := keywords.New(map[keywords.Category][]string{keywords.Prohibited: {"jetski"}})
	require.NoError(t, err)
	require.NoError(t, eng.ReloadKeywords(context.Background(), stubSource{tb: tb}))

	d := eng.Evaluate(Submission{Image: cleanImage(), Filename: "tobacco_jetski.png"})
	assert.Equal(t, StatusRejected, d.Status)
	assert.Equal(t, []string{"Prohibited term in filename: jetski"}, d.Reasons)
}

func TestSeverityStatusRoundTrip(t *testing.T) {
	for _, s := range []Severity{SeverityNone, SeverityReview, SeverityReject} {
		assert.Equal(t, s, s.Status().Severity(), s.String())
	}
}
