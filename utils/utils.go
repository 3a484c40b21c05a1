package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"runtime"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"
)

func init() {
	rand.Seed(randomSeed())
}

// randomSeed derives a fresh per-process seed so id sequences do not repeat
// across restarts.
func randomSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// SendJSONResponse sends a JSON response with the given status code and data
func SendJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleError standardizes error handling by sending a JSON error response
func HandleError(w http.ResponseWriter, status int, message string) {
	SendJSONResponse(w, status, map[string]string{
		"massage": message,
	})
}

// HashPassword hashes a plaintext password using bcrypt
func HashPassword(password string) (string, error) {
	hashPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashPassword), nil
}

func CheckPassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err
}

func ErrorWithTrace(err error, errMesssage string) error {

	if err != nil {
		// Skip 1 level to get the caller of this function
		_, file, line, _ := runtime.Caller(1)
		return fmt.Errorf("%s:%d: %v %s", file, line, err, errMesssage)
	}
	return nil
}

// RandomNumericID returns a random numeric string of exactly width digits,
// zero padded. Used for payment identifiers.
func RandomNumericID(width int) string {
	max := 1
	for i := 0; i < width; i++ {
		max *= 10
	}
	return fmt.Sprintf("%0*d", width, rand.Intn(max))
}

// NextPrefixID produces the next sequential user id for a role prefix,
// e.g. ("CM", "CM007") -> "CM008". An empty lastID starts the sequence.
func NextPrefixID(prefix, lastID string) string {
	if lastID == "" {
		return fmt.Sprintf("%s%03d", prefix, 1)
	}
	var n int
	fmt.Sscanf(lastID[len(prefix):], "%d", &n)
	return fmt.Sprintf("%s%03d", prefix, n+1)
}

// PointsForAmount is the loyalty rule: one point per full 10 spent.
func PointsForAmount(amount float64) int {
	if amount <= 0 {
		return 0
	}
	return int(math.Floor(amount / 10))
}
