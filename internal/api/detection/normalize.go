package detection

import (
	"VisionAPI/internal/entity"
	"fmt"
	"strings"
	"time"
)

const (
	TimestampLayout  = "02-01-2006 15:04:05"
	DefaultURLDomain = "s3.amazonaws.com"
)

// Normalizer reshapes raw detection output into the client contract.
type Normalizer struct {
	domain   string
	location *time.Location
}

func NewNormalizer(domain string, location *time.Location) *Normalizer {
	if domain == "" {
		domain = DefaultURLDomain
	}
	if location == nil {
		location = time.Local
	}
	return &Normalizer{
		domain:   domain,
		location: location,
	}
}

func (n *Normalizer) Normalize(raw entity.RawDetection, bucket string, key string, observed time.Time) entity.DetectionResponse {
	return entity.DetectionResponse{
		ImageURL:       n.ImageURL(bucket, key),
		TimestampLocal: n.Timestamp(observed),
		Faces:          NormalizeFaces(raw.Faces),
	}
}

// ImageURL formats the public object URL. It does not check that the object
// exists or is public.
func (n *Normalizer) ImageURL(bucket string, key string) string {
	return fmt.Sprintf("https://%s.%s/%s", bucket, n.domain, strings.TrimPrefix(key, "/"))
}

func (n *Normalizer) Timestamp(t time.Time) string {
	return t.In(n.location).Format(TimestampLayout)
}

// NormalizeFaces never returns an empty slice: no detections yields a single
// placeholder so clients can always read faces[0].
func NormalizeFaces(raw []entity.RawFace) []entity.FaceResult {
	if len(raw) == 0 {
		return []entity.FaceResult{PlaceholderFace()}
	}

	faces := make([]entity.FaceResult, 0, len(raw))
	for _, f := range raw {
		faces = append(faces, NormalizeFace(f))
	}
	return faces
}

func NormalizeFace(raw entity.RawFace) entity.FaceResult {
	dominant := DominantEmotion(raw.Emotions)
	return entity.FaceResult{
		Position:   copyBox(raw.BoundingBox),
		Emotion:    &dominant.Label,
		Confidence: &dominant.Confidence,
	}
}

func PlaceholderFace() entity.FaceResult {
	return entity.FaceResult{}
}

// DominantEmotion returns the highest-confidence emotion. On ties the first
// one in input order wins. A face without emotions is UNKNOWN with 0.
func DominantEmotion(scores []entity.EmotionScore) entity.EmotionScore {
	if len(scores) == 0 {
		return entity.EmotionScore{Label: entity.EmotionUnknown, Confidence: 0}
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Confidence > best.Confidence {
			best = s
		}
	}
	return best
}

func copyBox(b entity.BoundingBox) entity.BoundingBox {
	return entity.BoundingBox{
		Height: copyFloat(b.Height),
		Left:   copyFloat(b.Left),
		Top:    copyFloat(b.Top),
		Width:  copyFloat(b.Width),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
