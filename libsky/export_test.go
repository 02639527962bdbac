package libsky

// these functions are only exported when running tests

var EncodeRgbeChunk = encodeRgbeChunk
var DecodeRgbeChunk = decodeRgbeChunk
var RaySphere = raySphere
var RoundUpKernelSize = roundUpKernelSize
