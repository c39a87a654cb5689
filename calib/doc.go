// Package calib analyzes the measurement-chain calibration data: attenuator
// response, pre-amplifier gain, and pre-amplifier frequency response.
//
// The inputs are the columnar voltage tables recorded during calibration;
// the outputs are fitted calibration curves and summary statistics consumed
// by the reporting CLI and the plotting helpers.
package calib
