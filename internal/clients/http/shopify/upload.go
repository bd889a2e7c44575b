package shopify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxUploadErrorBody = 64 << 10

// Upload posts the file to a staged target in a single multipart request. The target's
// parameters are written first, in the order received, followed by the file part.
func (c *Client) Upload(ctx context.Context, target *StagedTarget, filename, mimeType string, content io.Reader) (err error) {
	if c == nil || c.httpClient == nil {
		return errors.New("shopify client not configured")
	}
	if target == nil || strings.TrimSpace(target.URL) == "" {
		return errors.New("staged upload target is required")
	}
	ctx, span := c.tracer.Start(ctx, "shopify.stagedUpload", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("upload.filename", filename)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, p := range target.Parameters {
		if err := writer.WriteField(p.Name, p.Value); err != nil {
			return fmt.Errorf("write upload parameter %q: %w", p.Name, err)
		}
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	if mimeType != "" {
		header.Set("Content-Type", mimeType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create upload file part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("buffer upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, &body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call staged upload target: %w", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxUploadErrorBody))
		return &UploadError{StatusCode: resp.StatusCode, Body: raw}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
