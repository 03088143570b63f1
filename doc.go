// Package mcmc is a toolkit for random-walk Metropolis-Hastings sampling of a
// scalar target density and for diagnosing the chains it produces.
//
// The sampler package advances the chain, the autocorr package estimates the
// normalized autocorrelation profile of a realization, and the remaining
// packages record, monitor and summarize runs.
package mcmc
