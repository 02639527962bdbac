package libtrace

// these functions are only exported when running tests

var BloomLevels = bloomLevels
var UpFactors = upFactors
var ThresholdCurve = thresholdCurve
