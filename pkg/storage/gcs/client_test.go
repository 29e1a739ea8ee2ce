package gcs

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func mustGenerateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}

func TestSignedURLSuccess(t *testing.T) {
	t.Parallel()

	key := mustGenerateKey(t)
	client := &Client{
		defaultBucket: "bucket",
		serviceAccount: &serviceAccountInfo{
			clientEmail: "signer@example.com",
			privateKey:  key,
		},
	}

	object := "profiles/photo.png"
	contentType := "image/png"
	urlStr, err := client.SignedURL("bucket", object, contentType, 5*time.Minute)
	if err != nil {
		t.Fatalf("SignedURL returned error: %v", err)
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}
	if !strings.EqualFold(parsed.Host, "storage.googleapis.com") {
		t.Fatalf("unexpected host %s", parsed.Host)
	}

	values := parsed.Query()
	if got := values.Get("GoogleAccessId"); got != "signer@example.com" {
		t.Fatalf("unexpected GoogleAccessId %q", got)
	}

	expireParam := values.Get("Expires")
	if expireParam == "" {
		t.Fatalf("Expires missing")
	}
	if _, err := strconv.ParseInt(expireParam, 10, 64); err != nil {
		t.Fatalf("parse expires: %v", err)
	}

	signature := values.Get("Signature")
	if signature == "" {
		t.Fatalf("signature missing")
	}
	rawSig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	data := []byte("PUT\n\n" + contentType + "\n" + expireParam + "\n/" + "bucket" + "/" + object)
	hash := sha256.Sum256(data)
	if err := rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, hash[:], rawSig); err != nil {
		t.Fatalf("verify signature: %v", err)
	}
}

func TestSignedReadURLSuccess(t *testing.T) {
	t.Parallel()

	key := mustGenerateKey(t)
	client := &Client{
		defaultBucket: "bucket",
		serviceAccount: &serviceAccountInfo{
			clientEmail: "signer@example.com",
			privateKey:  key,
		},
	}

	object := "profiles/photo.jpg"
	urlStr, err := client.SignedReadURL("bucket", object, 5*time.Minute)
	if err != nil {
		t.Fatalf("SignedReadURL returned error: %v", err)
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}
	values := parsed.Query()
	expireParam := values.Get("Expires")
	signature, err := base64.StdEncoding.DecodeString(values.Get("Signature"))
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	data := []byte("GET\n\n\n" + expireParam + "\n/" + "bucket" + "/" + object)
	hash := sha256.Sum256(data)
	if err := rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, hash[:], signature); err != nil {
		t.Fatalf("verify signature: %v", err)
	}
}

func TestSignedURLErrors(t *testing.T) {
	t.Parallel()

	key := mustGenerateKey(t)
	client := &Client{
		serviceAccount: &serviceAccountInfo{
			clientEmail: "signer@example.com",
			privateKey:  key,
		},
	}

	cases := []struct {
		name        string
		bucket      string
		object      string
		contentType string
		expires     time.Duration
	}{
		{name: "missing bucket", bucket: "", object: "object", contentType: "image/png", expires: time.Minute},
		{name: "missing object", bucket: "bucket", object: "", contentType: "image/png", expires: time.Minute},
		{name: "non-positive expiry", bucket: "bucket", object: "object", contentType: "image/png", expires: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := client.SignedURL(tc.bucket, tc.object, tc.contentType, tc.expires); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	emptyClient := &Client{}
	if _, err := emptyClient.SignedURL("bucket", "object", "image/png", time.Minute); err == nil {
		t.Fatalf("expected error without service account")
	}
}
