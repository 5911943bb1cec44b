package images

import (
	"crypto/md5"
	"fmt"

	"gocv.io/x/gocv"
)

// ComputeMatChecksum generates a deterministic checksum of a Mat's pixel bytes.
//
// Region views are not continuous in memory, so they are cloned before
// hashing. Two Mats with the same checksum hold byte-identical pixels.
//
// Arguments:
// - mat: The Mat to compute checksum for.
//
// Returns:
// - A hex-encoded MD5 checksum string, or "empty" for an empty Mat.
//
// Example:
//
// ```go
//
//	checksum := ComputeMatChecksum(strip)
//	fmt.Printf("Strip checksum: %s\n", checksum)
//
// ```
func ComputeMatChecksum(mat gocv.Mat) string {
	if mat.Empty() {
		return "empty"
	}

	if !mat.IsContinuous() {
		c := mat.Clone()
		defer c.Close()
		return ComputeMatChecksum(c)
	}

	data, _ := mat.DataPtrUint8()
	hash := md5.New()
	hash.Write(data)
	return fmt.Sprintf("%x", hash.Sum(nil))
}

// ComputeRegionChecksum returns the checksum of the sub-rectangle r of mat.
// The caller must make sure r lies within mat.
func ComputeRegionChecksum(mat gocv.Mat, r Rect) string {
	if r.Empty() {
		return "empty"
	}
	roi := mat.Region(r.Rectangle())
	defer roi.Close()
	return ComputeMatChecksum(roi)
}
