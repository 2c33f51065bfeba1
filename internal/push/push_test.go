package push

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}

	// Public key is a base64url-encoded uncompressed P-256 point.
	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}

	privBytes, err := base64.RawURLEncoding.DecodeString(priv)
	if err != nil {
		t.Fatalf("decode private key: %v", err)
	}
	if len(privBytes) == 0 || len(privBytes) > 32 {
		t.Errorf("private key length = %d, want a P-256 scalar", len(privBytes))
	}

	pub2, _, _ := GenerateVAPIDKeys()
	if pub == pub2 {
		t.Error("expected different keys on second generation")
	}
}

func TestPayloadJSON(t *testing.T) {
	data, err := json.Marshal(Payload{Title: "Producto añadido", Body: "Leche se añadió a la lista (Mercadona)"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]string
	json.Unmarshal(data, &got)
	if got["title"] != "Producto añadido" {
		t.Errorf("title = %q", got["title"])
	}
	if _, ok := got["tag"]; ok {
		t.Error("empty tag should be omitted")
	}
}

func TestServiceKeys(t *testing.T) {
	svc := NewService("pub", "priv")
	if svc.VAPIDPublicKey() != "pub" {
		t.Errorf("public key = %q, want pub", svc.VAPIDPublicKey())
	}
}
