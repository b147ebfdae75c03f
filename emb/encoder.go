// Package emb wraps an ONNX sentence-embedding model behind a small
// Encode(string) -> vector API. It pairs a HuggingFace tokenizer file with
// an onnxruntime session and applies masked mean pooling plus L2
// normalization, matching the sentence-transformers export convention.
package emb

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Config holds the paths and limits needed to initialize an Encoder.
type Config struct {
	// OrtDLL is the path to the onnxruntime shared library. Empty uses the
	// platform default lookup.
	OrtDLL        string
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
}

// Encoder runs a transformer embedding model through onnxruntime.
type Encoder struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	tk      *tokenizer.Tokenizer
	maxSeq  int
}

// The onnxruntime environment is process-wide; initialize it once and keep
// it alive for any later encoders.
var ortInitOnce sync.Once
var ortInitErr error

func initRuntime(dllPath string) error {
	ortInitOnce.Do(func() {
		if dllPath != "" {
			ort.SetSharedLibraryPath(dllPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// Init loads the tokenizer and opens the ONNX session.
func (e *Encoder) Init(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("emb: model path is required")
	}
	if cfg.TokenizerPath == "" {
		return errors.New("emb: tokenizer path is required")
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 512
	}
	if err := initRuntime(cfg.OrtDLL); err != nil {
		return fmt.Errorf("emb: initialize onnxruntime: %w", err)
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("emb: load tokenizer: %w", err)
	}
	tk.WithTruncation(&tokenizer.TruncationParams{
		MaxLength: cfg.MaxSeqLen,
		Strategy:  tokenizer.LongestFirst,
	})

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		nil,
	)
	if err != nil {
		return fmt.Errorf("emb: open session: %w", err)
	}

	e.mu.Lock()
	e.session = session
	e.tk = tk
	e.maxSeq = cfg.MaxSeqLen
	e.mu.Unlock()
	return nil
}

// Close releases the ONNX session. The shared runtime environment stays up
// for other encoders in the process.
func (e *Encoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		_ = e.session.Destroy()
		e.session = nil
	}
	e.tk = nil
}

// Encode embeds a single string into a unit-length vector.
func (e *Encoder) Encode(text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil || e.tk == nil {
		return nil, errors.New("emb: encoder is not initialized")
	}

	encoding, err := e.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("emb: tokenize: %w", err)
	}
	seqLen := len(encoding.Ids)
	if seqLen == 0 {
		return nil, errors.New("emb: tokenizer produced no tokens")
	}
	if seqLen > e.maxSeq {
		seqLen = e.maxSeq
	}

	ids := make([]int64, seqLen)
	mask := make([]int64, seqLen)
	types := make([]int64, seqLen)
	for i := 0; i < seqLen; i++ {
		ids[i] = int64(encoding.Ids[i])
		mask[i] = int64(encoding.AttentionMask[i])
		types[i] = int64(encoding.TypeIds[i])
	}

	shape := ort.NewShape(1, int64(seqLen))
	idTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("emb: input tensor: %w", err)
	}
	defer idTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("emb: mask tensor: %w", err)
	}
	defer maskTensor.Destroy()
	typeTensor, err := ort.NewTensor(shape, types)
	if err != nil {
		return nil, fmt.Errorf("emb: type tensor: %w", err)
	}
	defer typeTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{idTensor, maskTensor, typeTensor}, outputs); err != nil {
		return nil, fmt.Errorf("emb: run model: %w", err)
	}
	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, errors.New("emb: unexpected output tensor type")
	}
	defer hidden.Destroy()

	dims := hidden.GetShape()
	if len(dims) != 3 {
		return nil, fmt.Errorf("emb: unexpected output rank %d", len(dims))
	}
	return meanPool(hidden.GetData(), mask, int(dims[1]), int(dims[2])), nil
}

// meanPool averages token vectors where the attention mask is set and
// normalizes the result to unit length.
func meanPool(data []float32, mask []int64, seqLen, hiddenDim int) []float32 {
	out := make([]float32, hiddenDim)
	counted := 0
	for t := 0; t < seqLen && t < len(mask); t++ {
		if mask[t] == 0 {
			continue
		}
		counted++
		base := t * hiddenDim
		for d := 0; d < hiddenDim; d++ {
			out[d] += data[base+d]
		}
	}
	if counted == 0 {
		return out
	}
	inv := 1.0 / float32(counted)
	var norm float64
	for d := range out {
		out[d] *= inv
		norm += float64(out[d]) * float64(out[d])
	}
	if norm > 0 {
		scale := float32(1.0 / math.Sqrt(norm))
		for d := range out {
			out[d] *= scale
		}
	}
	return out
}
