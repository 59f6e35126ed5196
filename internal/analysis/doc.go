// Package analysis provides spectral tools for per-frame run series.
//
// The cloth sways under the sinusoidal wind and rings after a release; the
// dominant frequency of the mean stress series shows both:
//
//	f := analysis.DominantFrequency(report.MeanStress, scenario.Dt)
package analysis
