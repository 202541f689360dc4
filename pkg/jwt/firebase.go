package jwt

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"nutriscan-backend/domain"

	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v4"
)

// GoogleCertsURL serves the x509 certificates that sign Firebase ID tokens.
const GoogleCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

type firebaseVerifier struct {
	projectID  string
	certsURL   string
	httpClient *http.Client

	refreshMu sync.Mutex
	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expires   time.Time
}

func NewFirebaseVerifier(projectID string, certsURL string, httpClient *http.Client) JWTService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &firebaseVerifier{
		projectID:  projectID,
		certsURL:   certsURL,
		httpClient: httpClient,
	}
}

func (f *firebaseVerifier) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	if f.projectID == "" {
		log.Errorw("firebase project id is not configured")
		return nil, domain.ErrTokenInvalid
	}

	claims := &identityClaims{}
	t_Token, err := jwt.ParseWithClaims(token, claims, func(t_ *jwt.Token) (any, error) {
		if _, ok := t_.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
		}
		kid, _ := t_.Header["kid"].(string)
		return f.key(ctx, kid)
	})
	if err != nil {
		return nil, mapParseError(err)
	}
	if !t_Token.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}
	if !claims.VerifyAudience(f.projectID, true) ||
		!claims.VerifyIssuer("https://securetoken.google.com/"+f.projectID, true) {
		return nil, domain.ErrTokenInvalid
	}
	return claims.identity(), nil
}

// key resolves a signing key. A kid missing from a fresh cert set is rejected
// without refetching; a stale set is refetched by one caller at a time.
func (f *firebaseVerifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	key, ok, fresh := f.lookup(kid)
	if fresh {
		if !ok {
			return nil, fmt.Errorf("unknown key id %q", kid)
		}
		return key, nil
	}

	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()
	if key, ok, fresh = f.lookup(kid); !fresh {
		if err := f.refresh(ctx); err != nil {
			return nil, err
		}
		key, ok, _ = f.lookup(kid)
	}
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}

func (f *firebaseVerifier) lookup(kid string) (*rsa.PublicKey, bool, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	key, ok := f.keys[kid]
	return key, ok, time.Now().Before(f.expires)
}

func (f *firebaseVerifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.certsURL, nil)
	if err != nil {
		return err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch signing certs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch signing certs: status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return fmt.Errorf("decode signing certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pemCert := range certs {
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemCert))
		if err != nil {
			log.Warnw("skipping unparsable signing cert", "kid", kid, "error", err)
			continue
		}
		keys[kid] = pub
	}

	f.mu.Lock()
	f.keys = keys
	f.expires = time.Now().Add(maxAge(resp.Header.Get("Cache-Control")))
	f.mu.Unlock()
	return nil
}

func maxAge(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "max-age="); ok {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return time.Hour
}
