// Package preprocess prepares image data handed to the pose estimator.
package preprocess
