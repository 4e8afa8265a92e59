package rekognition

import (
	"VisionAPI/pkg/response"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRekognition struct {
	rekognitioniface.RekognitionAPI
	facesIn   *rekognition.DetectFacesInput
	facesOut  *rekognition.DetectFacesOutput
	labelsIn  *rekognition.DetectLabelsInput
	labelsOut *rekognition.DetectLabelsOutput
	err       error
}

func (f *fakeRekognition) DetectFacesWithContext(_ aws.Context, in *rekognition.DetectFacesInput, _ ...request.Option) (*rekognition.DetectFacesOutput, error) {
	f.facesIn = in
	return f.facesOut, f.err
}

func (f *fakeRekognition) DetectLabelsWithContext(_ aws.Context, in *rekognition.DetectLabelsInput, _ ...request.Option) (*rekognition.DetectLabelsOutput, error) {
	f.labelsIn = in
	return f.labelsOut, f.err
}

func TestDetectFacesMapsDetails(t *testing.T) {
	fake := &fakeRekognition{facesOut: &rekognition.DetectFacesOutput{
		FaceDetails: []*rekognition.FaceDetail{
			{
				BoundingBox: &rekognition.BoundingBox{Height: aws.Float64(0.3), Left: aws.Float64(0.1), Top: aws.Float64(0.2), Width: aws.Float64(0.25)},
				Emotions: []*rekognition.Emotion{
					{Type: aws.String("HAPPY"), Confidence: aws.Float64(90)},
					{Type: nil, Confidence: aws.Float64(99)},
					{Type: aws.String("SURPRISED"), Confidence: aws.Float64(90)},
				},
			},
			nil,
			{},
		},
	}}

	got, err := NewWithClient(fake).DetectFaces(context.Background(), "photos", "myphotos/a.jpg")
	require.NoError(t, err)

	assert.Equal(t, "photos", aws.StringValue(fake.facesIn.Image.S3Object.Bucket))
	assert.Equal(t, "myphotos/a.jpg", aws.StringValue(fake.facesIn.Image.S3Object.Name))
	assert.Equal(t, []*string{aws.String("ALL")}, fake.facesIn.Attributes)

	require.Len(t, got.Faces, 2)
	assert.Equal(t, 0.3, *got.Faces[0].BoundingBox.Height)
	require.Len(t, got.Faces[0].Emotions, 2)
	assert.Equal(t, "HAPPY", got.Faces[0].Emotions[0].Label)
	assert.Equal(t, "SURPRISED", got.Faces[0].Emotions[1].Label)
	assert.True(t, got.Faces[1].BoundingBox.IsEmpty())
	assert.Empty(t, got.Faces[1].Emotions)
}

func TestDetectLabelsMapsCategories(t *testing.T) {
	fake := &fakeRekognition{labelsOut: &rekognition.DetectLabelsOutput{
		Labels: []*rekognition.Label{
			{
				Name:       aws.String("German Shepherd"),
				Confidence: aws.Float64(88.5),
				Categories: []*rekognition.LabelCategory{{Name: aws.String("Animals and Pets")}},
			},
			{Name: nil},
		},
	}}

	got, err := NewWithClient(fake).DetectLabels(context.Background(), "photos", "dog.jpg", 10, 75)
	require.NoError(t, err)

	assert.Equal(t, int64(10), aws.Int64Value(fake.labelsIn.MaxLabels))
	assert.Equal(t, 75.0, aws.Float64Value(fake.labelsIn.MinConfidence))
	require.Len(t, got, 1)
	assert.True(t, got[0].InCategory("Animals and Pets"))
}

func TestDetectFacesClassifiesErrors(t *testing.T) {
	fake := &fakeRekognition{err: awserr.NewRequestFailure(
		awserr.New("AccessDeniedException", "User is not authorized", nil), http.StatusBadRequest, "id",
	)}

	_, err := NewWithClient(fake).DetectFaces(context.Background(), "b", "k")

	var respErr *response.Error
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, response.KindUpstream, respErr.Kind)
	assert.Equal(t, http.StatusBadGateway, respErr.Code)
}
