package observability

import "go.opentelemetry.io/otel/attribute"

const (
	attrPlatform = "platform"
	attrArch     = "arch"
	attrPhase    = "phase"
	attrOutcome  = "outcome"
)

func platformAttr(platform string) attribute.KeyValue {
	return attribute.String(attrPlatform, platform)
}

func archAttr(arch string) attribute.KeyValue {
	return attribute.String(attrArch, arch)
}

func phaseAttr(phase string) attribute.KeyValue {
	return attribute.String(attrPhase, phase)
}

func outcomeAttr(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String(attrOutcome, "failure")
	}

	return attribute.String(attrOutcome, "success")
}
