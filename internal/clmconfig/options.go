// Package clmconfig holds the training options threaded through every CLM
// subsystem, mirroring the original implementation's training_options.rs
// field for field so the documented defaults reproduce known-good numbers.
package clmconfig

// TrainingOptions is the full set of knobs for a training run. Most fields
// are read by the tokenizer, dictionary trainer, or ensemble model; ModelID,
// TrainingFile, TestFile and DatasetPercentage are read by the CLI and
// persistence. The compression-specific fields (D, F, K, ...) are passed
// through unmodified to the compression primitive.
type TrainingOptions struct {
	// Compression-primitive dictionary training parameters, passed through
	// to dictcompress.TrainDictionary unmodified.
	D                       uint32  `json:"d"`
	F                       uint32  `json:"f"`
	K                       uint32  `json:"k"`
	Steps                   uint32  `json:"steps"`
	NbThreads               uint32  `json:"nb_threads"`
	SplitPoint              float64 `json:"split_point"`
	Accel                   uint32  `json:"accel"`
	ShrinkDict              uint32  `json:"shrink_dict"`
	ShrinkDictMaxRegression uint32  `json:"shrink_dict_max_regression"`
	TrainCompressionLevel   int     `json:"train_compression_level"`

	DictionarySizePercentage float64 `json:"dictionary_size_percentage"`
	EnsembleSize             int     `json:"ensemble_size"`
	TrainingChunkSize        int     `json:"training_chunk_size"`
	TokenCount               int     `json:"token_count"`
	TokenByteSize            int     `json:"token_byte_size"`
	ContextWindow            int     `json:"context_window"`
	DatasetPercentage        float64 `json:"dataset_percentage"`
	Regularization           float64 `json:"regularization"`
	ModelID                  string  `json:"model_id,omitempty"`
	TrainingFile             string  `json:"training_file"`
	TestFile                 string  `json:"test_file"`
	InferenceBasis           float64 `json:"inference_basis"`
}

// Default returns the same defaults as the original Rust implementation's
// Default impl (enwik9, token_byte_size 5).
func Default() TrainingOptions {
	return TrainingOptions{
		D:                        8,
		F:                        16,
		K:                        6078,
		Steps:                    0,
		NbThreads:                12,
		SplitPoint:               1.0,
		Accel:                    1,
		ShrinkDict:               1,
		ShrinkDictMaxRegression:  3,
		TrainCompressionLevel:    21,
		DictionarySizePercentage: 0.08,
		EnsembleSize:             15,
		TrainingChunkSize:        256,
		TokenCount:               210,
		TokenByteSize:            5,
		ContextWindow:            32,
		DatasetPercentage:        1.0,
		Regularization:           0.0,
		ModelID:                  "enwik9_token_size_6",
		TrainingFile:             "data/enwik9",
		TestFile:                 "test.txt",
		InferenceBasis:           1.55,
	}
}

// ModelIDOrDefault returns ModelID, falling back to "without-id" the way
// save_run's model_id.unwrap_or("without-id") does.
func (o TrainingOptions) ModelIDOrDefault() string {
	if o.ModelID == "" {
		return "without-id"
	}
	return o.ModelID
}
