package synth

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	wavHeaderSize  = 44
	bytesPerSample = 2
)

// EncodeWAV writes samples as a 16-bit PCM mono RIFF/WAVE stream. Float
// samples outside [-1, 1] are clipped on conversion.
func EncodeWAV(w io.Writer, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("encode wav: sample rate %d is not positive", sampleRate)
	}

	dataSize := len(samples) * bytesPerSample
	header := make([]byte, wavHeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(wavHeaderSize-8+dataSize))
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*bytesPerSample))
	binary.LittleEndian.PutUint16(header[32:34], bytesPerSample)
	binary.LittleEndian.PutUint16(header[34:36], 16)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("encode wav header: %w", err)
	}

	data := make([]byte, dataSize)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(data[i*bytesPerSample:], uint16(clipToInt16(sample)))
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("encode wav data: %w", err)
	}

	return nil
}

func clipToInt16(sample float32) int16 {
	scaled := float64(sample) * math.MaxInt16
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}
