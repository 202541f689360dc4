package jwt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"nutriscan-backend/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = "nutriscan-test"

type certServer struct {
	key   *rsa.PrivateKey
	srv   *httptest.Server
	calls atomic.Int32
}

func newCertServer(t *testing.T) *certServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	cs := &certServer{key: key}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.calls.Add(1)
		w.Header().Set("Cache-Control", "public, max-age=600")
		_ = json.NewEncoder(w).Encode(map[string]string{"kid-1": string(certPEM)})
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *certServer) sign(t *testing.T, claims identityClaims, kid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(cs.key)
	require.NoError(t, err)
	return signed
}

func validClaims() identityClaims {
	now := time.Now()
	return identityClaims{
		Email: "ana@example.com",
		Name:  "Ana",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "firebase-uid-1",
			Audience:  jwt.ClaimStrings{testProject},
			Issuer:    "https://securetoken.google.com/" + testProject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestFirebaseVerifier_ValidToken(t *testing.T) {
	cs := newCertServer(t)
	verifier := NewFirebaseVerifier(testProject, cs.srv.URL, nil)

	identity, err := verifier.VerifyToken(context.Background(), cs.sign(t, validClaims(), "kid-1"))
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-1", identity.UID)
	assert.Equal(t, "ana@example.com", identity.Email)

	_, err = verifier.VerifyToken(context.Background(), cs.sign(t, validClaims(), "kid-1"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.calls.Load(), "certs should be cached")
}

func TestFirebaseVerifier_Rejects(t *testing.T) {
	cs := newCertServer(t)
	verifier := NewFirebaseVerifier(testProject, cs.srv.URL, nil)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://accounts.example.com"

	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", cs.sign(t, expired, "kid-1"), domain.ErrTokenExpired},
		{"wrong audience", cs.sign(t, wrongAudience, "kid-1"), domain.ErrTokenInvalid},
		{"wrong issuer", cs.sign(t, wrongIssuer, "kid-1"), domain.ErrTokenInvalid},
		{"missing subject", cs.sign(t, noSubject, "kid-1"), domain.ErrTokenInvalid},
		{"unknown kid", cs.sign(t, validClaims(), "kid-9"), domain.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.VerifyToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFirebaseVerifier_RejectsHMAC(t *testing.T) {
	cs := newCertServer(t)
	verifier := NewFirebaseVerifier(testProject, cs.srv.URL, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = verifier.VerifyToken(context.Background(), signed)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestFirebaseVerifier_UnknownKidDoesNotRefetch(t *testing.T) {
	cs := newCertServer(t)
	verifier := NewFirebaseVerifier(testProject, cs.srv.URL, nil)

	_, err := verifier.VerifyToken(context.Background(), cs.sign(t, validClaims(), "kid-1"))
	require.NoError(t, err)

	forged := cs.sign(t, validClaims(), "kid-unknown")
	for i := 0; i < 5; i++ {
		_, err := verifier.VerifyToken(context.Background(), forged)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	}
	assert.Equal(t, int32(1), cs.calls.Load())
}

func TestFirebaseVerifier_ConcurrentColdStartFetchesOnce(t *testing.T) {
	cs := newCertServer(t)
	verifier := NewFirebaseVerifier(testProject, cs.srv.URL, nil)
	token := cs.sign(t, validClaims(), "kid-1")

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = verifier.VerifyToken(context.Background(), token)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), cs.calls.Load())
}
