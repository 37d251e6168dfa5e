// Package toggle implements the on/off switch that triggers coin bursts.
package toggle
