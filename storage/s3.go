package storage

import (
	"io"
	"net/http"
	"strings"

	"ingest/models"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Storage backs s3 destinations. AuthDetails on the destination is
// "key:secret"; Endpoint allows S3-compatible stores.
type S3Storage struct {
	dest     *models.Destination
	s3Client *s3.S3
}

func NewS3Storage(dest *models.Destination) StorageAPI {
	creds := strings.SplitN(dest.AuthDetails, ":", 2)
	if len(creds) != 2 {
		creds = []string{"", ""}
	}
	awsConfig := aws.Config{
		Region:      aws.String(dest.Region),
		Credentials: credentials.NewStaticCredentials(creds[0], creds[1], ""),
	}
	if dest.Endpoint != "" {
		awsConfig.Endpoint = aws.String(dest.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	sess := session.Must(session.NewSession(&awsConfig))
	return &S3Storage{
		dest:     dest,
		s3Client: s3.New(sess),
	}
}

func (s *S3Storage) Destination() *models.Destination {
	return s.dest
}

func (s *S3Storage) remotePath(path string) string {
	if s.dest.Path == "" {
		return path
	}
	return strings.TrimSuffix(s.dest.Path, "/") + "/" + path
}

func (s *S3Storage) Save(path string, reader io.Reader) (int64, error) {
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	counter := &countingReader{reader: reader}
	_, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: &s.dest.Bucket,
		Key:    aws.String(s.remotePath(path)),
		Body:   counter,
	})
	if err != nil {
		return 0, err
	}
	return counter.count, nil
}

func (s *S3Storage) Load(path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.dest.Bucket,
		Key:    aws.String(s.remotePath(path)),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

func (s *S3Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	if _, err := s.Load(path, writer); err != nil {
		writer.WriteHeader(http.StatusNotFound)
	}
}

func (s *S3Storage) Delete(path string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &s.dest.Bucket,
		Key:    aws.String(s.remotePath(path)),
	})
	return err
}

type countingReader struct {
	reader io.Reader
	count  int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.count += int64(n)
	return n, err
}
