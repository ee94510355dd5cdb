package dataset

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `,Flight Number,Launch Site,class,Payload Mass (kg),Booster Version,Booster Version Category
0,1,CCAFS LC-40,0,0.0,F9 v1.0  B0003,v1.0
1,2,CCAFS LC-40,0,0.0,F9 v1.0  B0004,v1.0
2,3,CCAFS LC-40,0,525.0,F9 v1.0  B0005,v1.0
3,7,VAFB SLC-4E,0,500.0,F9 v1.1  B1003,v1.1
4,20,KSC LC-39A,1,2490.0,F9 FT B1031.1,FT
5,33,CCAFS SLC-40,1,5200.0,F9 B4 B1043.1,B4
6,44,KSC LC-39A,1,9600.0,F9 B5 B1049.1,B5
`

func TestParse_Sample(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	assert.Equal(t, "sample.csv", ds.Source())
	assert.Equal(t, 7, ds.Len())
	assert.Equal(t, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}, ds.Sites())
	assert.Equal(t, 0.0, ds.MinPayload())
	assert.Equal(t, 9600.0, ds.MaxPayload())

	first := ds.Records()[0]
	assert.Equal(t, LaunchRecord{
		FlightNumber:    1,
		Site:            "CCAFS LC-40",
		PayloadMassKg:   0,
		Class:           0,
		BoosterVersion:  "F9 v1.0  B0003",
		BoosterCategory: "v1.0",
	}, first)
	assert.True(t, ds.Records()[4].Success())
	assert.True(t, ds.HasSite("KSC LC-39A"))
	assert.False(t, ds.HasSite("Boca Chica"))
}

func TestParse_WithoutOptionalColumns(t *testing.T) {
	in := "Launch Site,Payload Mass (kg),class,Booster Version,Booster Version Category\n" +
		"A,500,1,F9 v1.0,v1.0\n"
	ds, err := Parse(strings.NewReader(in), "min.csv")
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, 0, ds.Records()[0].FlightNumber)
	assert.Equal(t, 500.0, ds.MinPayload())
	assert.Equal(t, 500.0, ds.MaxPayload())
}

func TestParse_ClassAcceptsFloatForm(t *testing.T) {
	in := "Launch Site,Payload Mass (kg),class,Booster Version,Booster Version Category\n" +
		"A,500,1.0,b,c\nA,600,0.0,b,c\n"
	ds, err := Parse(strings.NewReader(in), "f.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Records()[0].Class)
	assert.Equal(t, 0, ds.Records()[1].Class)
}

func TestParse_HeaderOnly(t *testing.T) {
	in := "Launch Site,Payload Mass (kg),class,Booster Version,Booster Version Category\n"
	ds, err := Parse(strings.NewReader(in), "empty.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Sites())
	assert.Equal(t, 0.0, ds.MinPayload())
	assert.Equal(t, 0.0, ds.MaxPayload())
}

func TestParse_Errors(t *testing.T) {
	const header = "Launch Site,Payload Mass (kg),class,Booster Version,Booster Version Category\n"
	tests := []struct {
		name    string
		in      string
		line    int
		column  string
		message string
	}{
		{name: "empty file", in: "", message: "no header row"},
		{name: "missing columns", in: "Launch Site,class\nA,1\n", message: "missing required columns: Payload Mass (kg), Booster Version, Booster Version Category"},
		{name: "bad class", in: header + "A,500,2,b,c\n", line: 2, column: ColClass, message: "class must be 0 or 1"},
		{name: "non-numeric class", in: header + "A,500,yes,b,c\n", line: 2, column: ColClass, message: "not a number"},
		{name: "negative payload", in: header + "A,500,1,b,c\nA,-1,1,b,c\n", line: 3, column: ColPayload, message: "non-negative"},
		{name: "non-numeric payload", in: header + "A,heavy,1,b,c\n", line: 2, column: ColPayload, message: "not a number"},
		{name: "empty site", in: header + ",500,1,b,c\n", line: 2, column: ColSite, message: "empty launch site"},
		{name: "short row", in: header + "A,500,1\n", line: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.in), "bad.csv")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLoad)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, "bad.csv", le.Source)
			assert.Equal(t, tc.line, le.Line)
			assert.Equal(t, tc.column, le.Column)
			if tc.message != "" {
				assert.Contains(t, err.Error(), tc.message)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "spacex_launch_dash.csv")
	require.NoError(t, os.WriteFile(p, []byte(sampleCSV), 0o600))

	ds, err := Load(context.Background(), p, SourceOpener{})
	require.NoError(t, err)
	assert.Equal(t, 7, ds.Len())
	assert.Equal(t, p, ds.Source())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/spacex_launch_dash.csv", SourceOpener{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_S3WithoutClient(t *testing.T) {
	_, err := Load(context.Background(), "s3://bucket/key.csv", SourceOpener{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
	assert.Contains(t, err.Error(), "no s3 client configured")
}

func TestSites_ReturnsCopy(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)
	sites := ds.Sites()
	sites[0] = "mutated"
	assert.Equal(t, "CCAFS LC-40", ds.Sites()[0])
}

func TestRecords_ReturnsCopy(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)
	require.Equal(t, 1, ds.Records()[4].Class)

	recs := ds.Records()
	recs[4].Class = 0
	recs[4].Site = "mutated"
	assert.Equal(t, 1, ds.Records()[4].Class)
	assert.Equal(t, "KSC LC-39A", ds.Records()[4].Site)
}

func TestNew_CopiesRecords(t *testing.T) {
	recs := []LaunchRecord{{Site: "A", PayloadMassKg: 10, Class: 1}}
	ds := New("mem", recs)
	recs[0].Site = "B"
	assert.Equal(t, "A", ds.Records()[0].Site)
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://launch-data/2024/spacex_launch_dash.csv")
	require.NoError(t, err)
	assert.Equal(t, "launch-data", bucket)
	assert.Equal(t, "2024/spacex_launch_dash.csv", key)

	for _, bad := range []string{"launch-data/key", "s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := ParseS3URI(bad)
		assert.Error(t, err, bad)
	}
}

// fakeS3 serves GetObject requests for path-style URLs from an in-memory map.
type fakeS3 struct {
	objects map[string]string // "bucket/key" -> body
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	path := strings.TrimPrefix(req.URL.Path, "/")
	body, ok := f.objects[path]
	if req.Method != http.MethodGet || !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Header:     http.Header{"Content-Type": {"application/xml"}},
			Body: io.NopCloser(strings.NewReader(
				`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>not found</Message></Error>`)),
			Request: req,
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"text/csv"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func newFakeS3Opener(objects map[string]string) *S3Opener {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKIDTEST", "SECRET", ""),
		HTTPClient:   &http.Client{Transport: &fakeS3{objects: objects}},
		BaseEndpoint: aws.String("https://mock.s3.local"),
		UsePathStyle: true,
	})
	return &S3Opener{Client: client}
}

func TestLoad_S3(t *testing.T) {
	opener := SourceOpener{S3: newFakeS3Opener(map[string]string{
		"launch-data/spacex_launch_dash.csv": sampleCSV,
	})}

	ds, err := Load(context.Background(), "s3://launch-data/spacex_launch_dash.csv", opener)
	require.NoError(t, err)
	assert.Equal(t, 7, ds.Len())
	assert.Equal(t, 9600.0, ds.MaxPayload())
}

func TestLoad_S3MissingObject(t *testing.T) {
	opener := SourceOpener{S3: newFakeS3Opener(map[string]string{})}

	_, err := Load(context.Background(), "s3://launch-data/missing.csv", opener)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoad))
	assert.Contains(t, err.Error(), "s3 get launch-data/missing.csv")
}
