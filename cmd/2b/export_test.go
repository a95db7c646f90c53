package main

// RunDispatch exposes runDispatch to the package tests.
var RunDispatch = runDispatch
