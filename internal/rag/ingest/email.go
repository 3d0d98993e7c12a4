package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"os"
	"strings"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
)

func extractEmail(ctx context.Context, path string) (docModel.ExtractedText, error) {
	logger.Trace(ctx).Debug("extractEmail", "attempting extraction", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return docModel.ExtractedText{}, fmt.Errorf("failed to read email: %w", err)
	}

	var subject, sender, date, body string
	msg, err := mail.ReadMessage(bufio.NewReader(bytes.NewReader(raw)))
	if err != nil {
		//no parsable header block, the whole file is the body
		body = toValidText(raw)
	} else {
		subject = decodeHeader(msg.Header.Get("Subject"))
		sender = decodeHeader(msg.Header.Get("From"))
		date = msg.Header.Get("Date")
		body = plainTextBody(textproto.MIMEHeader(msg.Header), msg.Body)
	}

	return docModel.ExtractedText{
		Text: fmt.Sprintf("Subject: %s\nFrom: %s\nDate: %s\n\n%s", subject, sender, date, body),
		Metadata: map[string]any{
			"subject":           subject,
			"sender":            sender,
			"date":              date,
			"extraction_method": "net/mail",
		},
	}, nil
}

// decodeHeader decodes RFC 2047 encoded words, keeping the raw value on failure.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// plainTextBody concatenates every text/plain leaf. HTML parts and attachments are skipped.
func plainTextBody(header textproto.MIMEHeader, body io.Reader) string {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return ""
		}
		var sb strings.Builder
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextRawPart()
			if err != nil {
				break
			}
			sb.WriteString(plainTextBody(part.Header, part))
		}
		return sb.String()
	}

	if mediaType != "text/plain" || isAttachment(header) {
		return ""
	}
	data, err := io.ReadAll(transferDecoder(header.Get("Content-Transfer-Encoding"), body))
	if err != nil && len(data) == 0 {
		return ""
	}
	return toValidText(data)
}

func isAttachment(header textproto.MIMEHeader) bool {
	disposition, _, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	return err == nil && disposition == "attachment"
}

func transferDecoder(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, newlineStripper{r})
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

// undecodable bytes become U+FFFD instead of failing the document
func toValidText(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

// newlineStripper drops CR/LF so wrapped base64 bodies decode
type newlineStripper struct {
	r io.Reader
}

func (n newlineStripper) Read(p []byte) (int, error) {
	buf := make([]byte, len(p))
	read, err := n.r.Read(buf)
	j := 0
	for _, c := range buf[:read] {
		if c != '\r' && c != '\n' {
			p[j] = c
			j++
		}
	}
	if j == 0 && err == nil && read > 0 {
		//all newlines, ask again rather than returning 0, nil
		return n.Read(p)
	}
	return j, err
}
