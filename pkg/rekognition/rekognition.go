package rekognition

import (
	"VisionAPI/internal/entity"
	"VisionAPI/pkg/awsclient"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
)

const serviceName = "rekognition"

type IRekognition interface {
	DetectFaces(ctx context.Context, bucket string, key string) (entity.RawDetection, error)
	DetectLabels(ctx context.Context, bucket string, key string, maxLabels int64, minConfidence float64) ([]entity.Label, error)
}

type rekognitionClient struct {
	client rekognitioniface.RekognitionAPI
}

func New(sess *session.Session) IRekognition {
	return NewWithClient(rekognition.New(sess))
}

func NewWithClient(client rekognitioniface.RekognitionAPI) IRekognition {
	return &rekognitionClient{client: client}
}

func (r *rekognitionClient) DetectFaces(ctx context.Context, bucket string, key string) (entity.RawDetection, error) {
	out, err := r.client.DetectFacesWithContext(ctx, &rekognition.DetectFacesInput{
		Image:      s3Image(bucket, key),
		Attributes: []*string{aws.String(rekognition.AttributeAll)},
	})
	if err != nil {
		return entity.RawDetection{}, awsclient.Classify(serviceName, err)
	}

	detection := entity.RawDetection{
		Faces: make([]entity.RawFace, 0, len(out.FaceDetails)),
	}
	for _, fd := range out.FaceDetails {
		if fd == nil {
			continue
		}
		detection.Faces = append(detection.Faces, toRawFace(fd))
	}

	return detection, nil
}

func (r *rekognitionClient) DetectLabels(ctx context.Context, bucket string, key string, maxLabels int64, minConfidence float64) ([]entity.Label, error) {
	out, err := r.client.DetectLabelsWithContext(ctx, &rekognition.DetectLabelsInput{
		Image:         s3Image(bucket, key),
		MaxLabels:     aws.Int64(maxLabels),
		MinConfidence: aws.Float64(minConfidence),
	})
	if err != nil {
		return nil, awsclient.Classify(serviceName, err)
	}

	labels := make([]entity.Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l == nil || l.Name == nil {
			continue
		}
		label := entity.Label{
			Name:       aws.StringValue(l.Name),
			Confidence: aws.Float64Value(l.Confidence),
		}
		for _, c := range l.Categories {
			if c != nil && c.Name != nil {
				label.Categories = append(label.Categories, aws.StringValue(c.Name))
			}
		}
		labels = append(labels, label)
	}

	return labels, nil
}

func s3Image(bucket string, key string) *rekognition.Image {
	return &rekognition.Image{
		S3Object: &rekognition.S3Object{
			Bucket: aws.String(bucket),
			Name:   aws.String(key),
		},
	}
}

func toRawFace(fd *rekognition.FaceDetail) entity.RawFace {
	face := entity.RawFace{}

	if bb := fd.BoundingBox; bb != nil {
		face.BoundingBox = entity.BoundingBox{
			Height: bb.Height,
			Left:   bb.Left,
			Top:    bb.Top,
			Width:  bb.Width,
		}
	}

	for _, e := range fd.Emotions {
		if e == nil || e.Type == nil {
			continue
		}
		face.Emotions = append(face.Emotions, entity.EmotionScore{
			Label:      aws.StringValue(e.Type),
			Confidence: aws.Float64Value(e.Confidence),
		})
	}

	return face
}
