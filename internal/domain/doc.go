// Package domain models the IMD gridded daily rainfall datasets and the rules for
// choosing which yearly datasets to act on.
//
// # Data Source
//
// The India Meteorological Department (IMD) Pune publishes 0.25° x 0.25° gridded
// daily rainfall as one NetCDF file per year. The portal page lists the available
// years in a dropdown (<select name="RF25">); a year's file is obtained by posting
// the form field RF25=<year> to the download endpoint.
//
// # File Naming
//
//	RF25_ind<yyyy>_rfp25.nc  →  e.g. RF25_ind2019_rfp25.nc
//
// The same pattern is used when writing downloads and when scanning the data
// directory for years to visualize. See [DatasetFileName] and [ParseDatasetFileName].
//
// # Grid Layout
//
// Each file holds LONGITUDE (135 cells, 66.5°E–100°E), LATITUDE (129 cells,
// 6.5°N–38.5°N, stored south to north) and RAINFALL (TIME x LATITUDE x LONGITUDE,
// millimetres). Cells outside the land mask carry a fill value (-999) that readers
// convert to NaN. Leap-year files carry 366 days; [FramesPerYear] days are animated.
//
// # Year Resolution
//
// [Resolve] turns an optional (from, to) pair into a sorted, non-empty list of
// years drawn from an available set, in three phases: validate bounds, select,
// verify non-empty. [RequirePresent] adds an exact-membership check for bounds
// requested against files already on disk. Failures are [*RangeError] values
// wrapping one of [ErrRangeInverted], [ErrOutOfBounds], [ErrEmptySelection] or
// [ErrUnknownYear].
package domain
