package entity

import "time"

const EmotionUnknown = "UNKNOWN"

// BoundingBox is the normalized face rectangle. All fields are nil for the
// placeholder face returned when nothing was detected.
type BoundingBox struct {
	Height *float64 `json:"Height"`
	Left   *float64 `json:"Left"`
	Top    *float64 `json:"Top"`
	Width  *float64 `json:"Width"`
}

func (b BoundingBox) IsEmpty() bool {
	return b.Height == nil && b.Left == nil && b.Top == nil && b.Width == nil
}

type EmotionScore struct {
	Label      string
	Confidence float64
}

// RawFace is one face as reported by the detection service, before any
// selection is made.
type RawFace struct {
	BoundingBox BoundingBox
	Emotions    []EmotionScore
}

type RawDetection struct {
	Faces []RawFace
}

type ObjectMeta struct {
	LastModified time.Time
}

type FaceResult struct {
	Position   BoundingBox `json:"position"`
	Emotion    *string     `json:"classified_emotion"`
	Confidence *float64    `json:"classified_emotion_confidence"`
}

func (f FaceResult) DominantEmotion() *EmotionScore {
	if f.Emotion == nil || f.Confidence == nil {
		return nil
	}
	return &EmotionScore{Label: *f.Emotion, Confidence: *f.Confidence}
}

func (f FaceResult) IsPlaceholder() bool {
	return f.Position.IsEmpty() && f.Emotion == nil && f.Confidence == nil
}

type DetectionResponse struct {
	ImageURL       string       `json:"url_to_image"`
	TimestampLocal string       `json:"created_image"`
	Faces          []FaceResult `json:"faces"`
}
