package server

import "fmt"

// displayServerInfo prints the active configuration at startup
func (s *Server) displayServerInfo() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health           - Health check")
	fmt.Println("  GET  /version          - Build information")
	fmt.Println("  GET  /stats            - Server statistics")
	fmt.Println("  POST /api/v1/parse     - Parse an uploaded resume (requires API key)")
	fmt.Println("  POST /api/v1/analyze   - Analyze a job description (requires API key)")
	fmt.Println("  POST /api/v1/match     - Score a resume against a job (requires API key)")
	fmt.Println("  POST /api/v1/suggest   - Generate improvement suggestions (requires API key)")
	fmt.Println("  POST /api/v1/ats       - Check ATS compliance (requires API key)")

	s.displayAuthInfo()
	s.displayLimitInfo()
}

func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) == 0 {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
		return
	}
	fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
	fmt.Println("Include 'X-API-Key: <your-key>' header in requests to /api/v1 endpoints")
}

func (s *Server) displayLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}

	if s.RateLimit == nil || !s.RateLimit.Enabled {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
		return
	}
	fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
		s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	if s.RateLimit.ByAPIKey {
		fmt.Println("  - Per API key rate limiting enabled")
	}
	if s.RateLimit.ByIP {
		fmt.Println("  - Per IP address rate limiting enabled")
	}
}
