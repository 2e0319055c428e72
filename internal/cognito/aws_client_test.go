package cognito

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aws/smithy-go"
)

func TestSecretHash(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("supersecret"))
	mac.Write([]byte("user@example.com" + "abc123clientid"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if got := secretHash("user@example.com", "abc123clientid", "supersecret"); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if secretHash("other@example.com", "abc123clientid", "supersecret") == want {
		t.Error("expected different hash for different username")
	}
}

func TestHashFor_NoSecret(t *testing.T) {
	c := &AWSClient{clientID: "client"}
	if h := c.hashFor("user@example.com"); h != nil {
		t.Errorf("expected nil hash without client secret, got %q", *h)
	}
}

func TestMapAWSError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"username exists", &smithy.GenericAPIError{Code: "UsernameExistsException"}, ErrAccountExists},
		{"not authorized", &smithy.GenericAPIError{Code: "NotAuthorizedException"}, ErrNotAuthorized},
		{"limit exceeded", &smithy.GenericAPIError{Code: "LimitExceededException"}, ErrTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapAWSError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("got %v, want wrapped %v", got, tt.want)
			}
		})
	}
}

func TestMapAWSError_Unknown(t *testing.T) {
	err := mapAWSError(&smithy.GenericAPIError{Code: "InternalErrorException"})
	if _, ok := LookupError(err); ok {
		t.Errorf("expected unmapped error, got %v", err)
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		t.Error("expected original API error to stay in the chain")
	}
}
